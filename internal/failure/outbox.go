package failure

import "partfail-sim/internal/vessel"

type notice struct {
	part *vessel.Part
	msg  string
}

// outbox queues notifications raised while the engine lock is held.
type outbox struct {
	pending []notice
}

func (o *outbox) Broadcast(msg string) {
	o.pending = append(o.pending, notice{msg: msg})
}

func (o *outbox) InvalidateDisplay(p *vessel.Part) {
	o.pending = append(o.pending, notice{part: p})
}

func (o *outbox) drain() notices {
	out := o.pending
	o.pending = nil
	return out
}

type notices []notice

func (ns notices) deliver(n Notifier) {
	for _, x := range ns {
		if x.part != nil {
			n.InvalidateDisplay(x.part)
			continue
		}
		n.Broadcast(x.msg)
	}
}

type discardNotifier struct{}

func (discardNotifier) Broadcast(string)                {}
func (discardNotifier) InvalidateDisplay(*vessel.Part) {}
