package userclient

import "context"

// Pending хранит результат вызова, выполняющегося в отдельной горутине.
type Pending[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  T
	err    error
}

// Go запускает fn асинхронно. Отмена ctx или вызов Cancel прерывает запрос.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Pending[T] {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(p.done)
		defer cancel()
		p.value, p.err = fn(ctx)
	}()

	return p
}

// Done закрывается, когда вызов завершён.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Cancel прерывает вызов. Результат по-прежнему нужно получить через Wait.
func (p *Pending[T]) Cancel() {
	p.cancel()
}

// Wait блокируется до завершения вызова и возвращает его результат.
func (p *Pending[T]) Wait() (T, error) {
	<-p.done
	return p.value, p.err
}

// WaitAll ждёт все вызовы в порядке их завершения. При первой ошибке отменяет
// остальные и возвращает индекс вызова, который её вернул.
func WaitAll[T any](ps []*Pending[T]) ([]T, int, error) {
	type outcome struct {
		i     int
		value T
		err   error
	}

	results := make(chan outcome, len(ps))
	for i, p := range ps {
		i, p := i, p
		go func() {
			v, err := p.Wait()
			results <- outcome{i: i, value: v, err: err}
		}()
	}

	values := make([]T, len(ps))
	for range ps {
		o := <-results
		if o.err != nil {
			for _, p := range ps {
				p.Cancel()
			}
			return nil, o.i, o.err
		}
		values[o.i] = o.value
	}
	return values, -1, nil
}
