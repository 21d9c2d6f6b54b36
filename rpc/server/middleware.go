package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/rKV/lib/store"
	gometrics "github.com/rcrowley/go-metrics"
)

// IllegalMarker is the prefix of the text form of an illegal command message
const IllegalMarker = "ILLEGAL"

// validator is implemented by requests that can check themselves
type validator interface {
	Validate() error
}

// LoggingMiddleware wraps a Handler. It logs every request and its response
// and rejects illegal requests before they reach the wrapped handler.
type LoggingMiddleware[Req, Resp any] struct {
	next   Handler[Req, Resp]
	marker string
	timer  gometrics.Timer
}

// NewLoggingMiddleware wraps next. Requests whose text form (fmt.Sprint) starts
// with marker, or whose Validate method fails, are rejected with a
// store.RetCProtocolError without calling next. An empty marker disables the
// prefix check. If timer is not nil, the latency of every forwarded request is
// recorded in it.
func NewLoggingMiddleware[Req, Resp any](next Handler[Req, Resp], marker string, timer gometrics.Timer) *LoggingMiddleware[Req, Resp] {
	return &LoggingMiddleware[Req, Resp]{
		next:   next,
		marker: marker,
		timer:  timer,
	}
}

func (m *LoggingMiddleware[Req, Resp]) Handle(req Req) (Resp, error) {
	var zero Resp
	start := time.Now()
	repr := fmt.Sprint(req)
	Logger.Debugf("-> %s", repr)

	if m.marker != "" && strings.HasPrefix(repr, m.marker) {
		Logger.Warningf("rejected illegal request: %s", repr)
		return zero, store.NewError(store.RetCProtocolError, fmt.Sprintf("illegal request: %s", repr))
	}

	if v, ok := any(req).(validator); ok {
		if err := v.Validate(); err != nil {
			Logger.Warningf("rejected invalid request %s: %v", repr, err)
			if store.IsCode(err, store.RetCProtocolError) {
				return zero, err
			}
			return zero, store.WrapError(store.RetCProtocolError, "invalid request", err)
		}
	}

	resp, err := m.next.Handle(req)
	elapsed := time.Since(start)
	if m.timer != nil {
		m.timer.Update(elapsed)
	}

	if err != nil {
		Logger.Debugf("<- error %v", err)
	} else {
		Logger.Debugf("<- %s", fmt.Sprint(resp))
	}
	Logger.Infof("Request took %s", elapsed)
	return resp, err
}
