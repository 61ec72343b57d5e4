package notify

import (
	"context"
	"strings"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

type handlerFunc func(context.Context, domain.Notification) error

type handlerFactory struct {
	byTitle map[string]handlerFunc
}

func newHandlerFactory(onNewOrder, onGetLocation handlerFunc) *handlerFactory {
	return &handlerFactory{
		byTitle: map[string]handlerFunc{
			strings.ToLower(domain.TitleNewOrder):    onNewOrder,
			strings.ToLower(domain.TitleGetLocation): onGetLocation,
		},
	}
}

func (f *handlerFactory) get(title string) (handlerFunc, bool) {
	title = strings.ToLower(strings.TrimSpace(title))
	fn, ok := f.byTitle[title]
	return fn, ok
}
