package internal

// Observer is the three-channel notification contract. OnError and
// OnComplete are terminal: at most one of them may ever fire, and no
// OnNext may follow either.
type Observer interface {
	OnNext(v any)
	OnError(err error)
	OnComplete()
}

// ObserverFuncs adapts a partial handler set into a full Observer.
// A nil handler is a no-op, except Error: an error delivered with no
// Error handler goes to the goroutine runtime's unhandled channel.
type ObserverFuncs struct {
	Next     func(v any)
	Error    func(err error)
	Complete func()
}

func (o ObserverFuncs) OnNext(v any) {
	if o.Next != nil {
		o.Next(v)
	}
}

func (o ObserverFuncs) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
		return
	}

	GetRuntime().ReportUnhandled(err)
}

func (o ObserverFuncs) OnComplete() {
	if o.Complete != nil {
		o.Complete()
	}
}
