// Package notify рассылка записей журнала подписчикам: websocket, RabbitMQ, Telegram.
package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/Freeeeeet/slot_board/internal/model"
)

// ActivityListener получает каждую новую запись журнала после успешной записи в хранилище
type ActivityListener interface {
	OnActivity(ctx context.Context, activity *model.Activity) error
}

// ListenerFunc адаптер функции к ActivityListener
type ListenerFunc func(ctx context.Context, activity *model.Activity) error

func (f ListenerFunc) OnActivity(ctx context.Context, activity *model.Activity) error {
	return f(ctx, activity)
}

// Multi вызывает всех подписчиков параллельно и ждёт их, ошибка одного не мешает остальным
type Multi []ActivityListener

func (m Multi) OnActivity(ctx context.Context, activity *model.Activity) error {
	errs := make([]error, len(m))

	var wg sync.WaitGroup
	for i, l := range m {
		if l == nil {
			continue
		}
		i, l := i, l
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = l.OnActivity(ctx, activity)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Nop подписчик, который ничего не делает
var Nop ActivityListener = ListenerFunc(func(context.Context, *model.Activity) error { return nil })
