package log

import (
	"context"
	"fmt"
	"log"
	"strings"
)

type ctxKey string

const (
	CheckerKey ctxKey = "checker"
	SessionKey ctxKey = "session"
	LineKey    ctxKey = "line"
)

// tag order in the prefix
var keys = []ctxKey{SessionKey, LineKey, CheckerKey}

type Loggable interface {
	Ctx() context.Context
}

// With returns ctx tagged with key=val.
func With(ctx context.Context, key ctxKey, val interface{}) context.Context {
	return context.WithValue(ctx, key, val)
}

func ctxToString(ctx context.Context) string {
	var tags []string
	for _, key := range keys {
		if val := ctx.Value(key); val != nil {
			tags = append(tags, fmt.Sprintf("%s=%v", key, val))
		}
	}
	return fmt.Sprintf("[%s]", strings.Join(tags, ","))
}

func Println(l Loggable, args ...interface{}) {
	var allArgs []interface{}
	allArgs = append(allArgs, ctxToString(l.Ctx()))
	allArgs = append(allArgs, args...)
	log.Println(allArgs...)
}

func Printf(l Loggable, format string, args ...interface{}) {
	log.Printf("%s %s", ctxToString(l.Ctx()), fmt.Sprintf(format, args...))
}

// Ctx adapts a bare context to Loggable.
type Ctx struct {
	context.Context
}

func (c Ctx) Ctx() context.Context {
	return c.Context
}
