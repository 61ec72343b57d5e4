package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/http/handlers"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

type stubSession struct {
	id        domain.CourierIdentity
	onlineErr error
	logoutErr error
	onlineArg []bool
	logouts   int

	loginErr     error
	loginToken   string
	loginCourier *domain.Courier
	order        *domain.OrderOffer
}

func (s *stubSession) Login(_ context.Context, token string, c *domain.Courier) (domain.CourierIdentity, error) {
	s.loginToken = token
	s.loginCourier = c
	if s.loginErr != nil {
		return domain.CourierIdentity{}, s.loginErr
	}
	if c != nil {
		s.id = c.Identity()
	}
	return s.id, nil
}

func (s *stubSession) Order(context.Context) (domain.OrderOffer, error) {
	if s.order == nil {
		return domain.OrderOffer{}, fmt.Errorf("session: %w: no accepted order", apperr.ErrNotFound)
	}
	return *s.order, nil
}

func (s *stubSession) Current(context.Context) (domain.CourierIdentity, error) { return s.id, nil }

func (s *stubSession) SetOnline(_ context.Context, online bool) (domain.CourierIdentity, error) {
	s.onlineArg = append(s.onlineArg, online)
	if s.onlineErr != nil {
		return s.id, s.onlineErr
	}
	s.id.Online = online
	return s.id, nil
}

func (s *stubSession) Logout(context.Context) error {
	s.logouts++
	return s.logoutErr
}

type identityBody struct {
	CourierID string `json:"courierId"`
	Online    bool   `json:"online"`
}

func TestSessionHandler_Get(t *testing.T) {
	t.Parallel()

	h := handlers.NewSessionHandler(logx.Nop(), &stubSession{id: domain.CourierIdentity{CourierID: "c1", Online: true}})
	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body identityBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, identityBody{CourierID: "c1", Online: true}, body)
}

func TestSessionHandler_Online(t *testing.T) {
	t.Parallel()

	s := &stubSession{id: domain.CourierIdentity{CourierID: "c1"}}
	h := handlers.NewSessionHandler(logx.Nop(), s)

	rr := httptest.NewRecorder()
	h.Online(rr, httptest.NewRequest(http.MethodPost, "/session/online", strings.NewReader(`{"online":true}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []bool{true}, s.onlineArg)
	var body identityBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.True(t, body.Online)
}

func TestSessionHandler_OnlineRequiresFlag(t *testing.T) {
	t.Parallel()

	s := &stubSession{}
	h := handlers.NewSessionHandler(logx.Nop(), s)

	rr := httptest.NewRecorder()
	h.Online(rr, httptest.NewRequest(http.MethodPost, "/session/online", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, s.onlineArg)
}

func TestSessionHandler_OnlineErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("session: %w: no courier logged in", apperr.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("session: %w: backend rejected", apperr.ErrConflict), http.StatusConflict},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := handlers.NewSessionHandler(logx.Nop(), &stubSession{onlineErr: tc.err})
		rr := httptest.NewRecorder()
		h.Online(rr, httptest.NewRequest(http.MethodPost, "/session/online", strings.NewReader(`{"online":false}`)))
		require.Equal(t, tc.code, rr.Code, tc.err.Error())
	}
}

func TestSessionHandler_Logout(t *testing.T) {
	t.Parallel()

	s := &stubSession{}
	h := handlers.NewSessionHandler(logx.Nop(), s)

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/session/logout", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, 1, s.logouts)

	s.logoutErr = errors.New("disk full")
	rr = httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/session/logout", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSessionHandler_Login(t *testing.T) {
	t.Parallel()

	s := &stubSession{}
	h := handlers.NewSessionHandler(logx.Nop(), s)

	body := `{"token":"tok-1","courier":{"_id":" c7 ","fullName":"Aigerim","onTheLine":true,"balance":1500}}`
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "tok-1", s.loginToken)
	require.NotNil(t, s.loginCourier)
	require.Equal(t, "c7", s.loginCourier.ID)
	require.Equal(t, "Aigerim", s.loginCourier.FullName)

	var got identityBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Equal(t, identityBody{CourierID: "c7", Online: true}, got)
}

func TestSessionHandler_Login_TokenOnly(t *testing.T) {
	t.Parallel()

	s := &stubSession{id: domain.CourierIdentity{CourierID: "c1"}}
	h := handlers.NewSessionHandler(logx.Nop(), s)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"token":"tok-2"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "tok-2", s.loginToken)
	require.Nil(t, s.loginCourier)
}

func TestSessionHandler_Login_Validation(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{}`,
		`{"token":""}`,
		`{"token":"t","courier":{"fullName":"no id"}}`,
	} {
		s := &stubSession{}
		h := handlers.NewSessionHandler(logx.Nop(), s)
		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
		require.Empty(t, s.loginToken, body)
	}
}

func TestSessionHandler_Order(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"orderId":"o9","income":900,"clientAddress":"Abay 10","extra":"kept"}`)
	s := &stubSession{order: &domain.OrderOffer{OrderID: "o9", Raw: raw}}
	h := handlers.NewSessionHandler(logx.Nop(), s)

	rr := httptest.NewRecorder()
	h.Order(rr, httptest.NewRequest(http.MethodGet, "/order", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, string(raw), rr.Body.String())

	s.order = nil
	rr = httptest.NewRecorder()
	h.Order(rr, httptest.NewRequest(http.MethodGet, "/order", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
