package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/vilterp/audit/pkg/audit"
	clog "github.com/vilterp/audit/pkg/log"
)

const Help = `<sig> <json>           check a value against a signature, e.g. string:3 "foo"
\t <json>              print the type of a value
\m <sig> <json>        check every element of an array
\c <json> <expr>       check a value against a condition, e.g. \c 5 > 4
\n <json>              check a value is not null or undefined
\i <desc> <json>       check an object against an interface, e.g. \i {"a":"number"} {"a":1}
\d <json>              dump the decoded value
\h                     help`

// Shell evaluates one command line at a time. Not safe for concurrent use.
type Shell struct {
	ctx     context.Context
	metrics *audit.Metrics
	line    int
}

var _ clog.Loggable = &Shell{}

// New returns a shell whose checks are recorded in metrics.
func New(ctx context.Context, metrics *audit.Metrics) *Shell {
	return &Shell{
		ctx:     ctx,
		metrics: metrics,
	}
}

func (s *Shell) Ctx() context.Context {
	return clog.With(s.ctx, clog.LineKey, s.line)
}

// Eval runs line and returns the text to print. Blank lines yield "".
func (s *Shell) Eval(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	s.line++

	out, err := s.eval(line)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return out
}

func (s *Shell) eval(line string) (string, error) {
	cmd, rest := cutWord(line)
	switch cmd {
	case `\h`:
		return Help, nil
	case `\t`:
		v, err := decodeOnly(rest)
		if err != nil {
			return "", err
		}
		return string(audit.TypeOf(v)), nil
	case `\d`:
		v, err := decodeOnly(rest)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(spew.Sdump(v), "\n"), nil
	case `\m`:
		sig, rest := cutWord(rest)
		c, err := audit.MapType(sig)
		if err != nil {
			return "", err
		}
		return s.run("map", c, rest)
	case `\c`:
		v, exprText, err := decodeFirst(rest)
		if err != nil {
			return "", err
		}
		c, err := audit.Expr(exprText)
		if err != nil {
			return "", err
		}
		return s.check("condition", c, v)
	case `\n`:
		return s.run("present", audit.Present, rest)
	case `\i`:
		var desc audit.Descriptor
		dec := json.NewDecoder(strings.NewReader(rest))
		if err := dec.Decode(&desc); err != nil {
			return "", errors.Wrap(err, "decoding descriptor")
		}
		c, err := audit.Interface(desc)
		if err != nil {
			return "", err
		}
		return s.run("interface", c, rest[dec.InputOffset():])
	}
	if strings.HasPrefix(cmd, `\`) {
		return "", fmt.Errorf("unknown command %s; \\h for help", cmd)
	}
	c, err := audit.IsType(cmd)
	if err != nil {
		return "", err
	}
	return s.run("is", c, rest)
}

func (s *Shell) run(name string, c audit.Checker, input string) (string, error) {
	v, err := decodeOnly(input)
	if err != nil {
		return "", err
	}
	return s.check(name, c, v)
}

func (s *Shell) check(name string, c audit.Checker, v interface{}) (string, error) {
	if s.metrics != nil {
		c = s.metrics.WrapContext(s.Ctx(), name, c)
	}
	out, err := audit.Pass(c, v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ok: %s", audit.FormatValue(out)), nil
}

func cutWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

// decodeFirst decodes one JSON value off the front of s and returns the rest.
func decodeFirst(s string) (interface{}, string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, "", errors.New("expected a JSON value")
	}
	dec := json.NewDecoder(strings.NewReader(s))
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, "", errors.Wrap(err, "decoding value")
	}
	return v, strings.TrimSpace(s[dec.InputOffset():]), nil
}

func decodeOnly(s string) (interface{}, error) {
	v, rest, err := decodeFirst(s)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("unexpected input after value: %s", rest)
	}
	return v, nil
}
