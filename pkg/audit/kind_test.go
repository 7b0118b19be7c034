package audit

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"
)

type sized struct{ n int }

func (s sized) Len() int { return s.n }

func TestTypeOf(t *testing.T) {
	now := time.Now()
	var nilSlice []int
	var nilPtr *int

	cases := []struct {
		in  interface{}
		out Kind
	}{
		{[]int{1, 2, 3}, KArray},
		{[3]string{}, KArray},
		{nilSlice, KArray},
		{map[string]int{"a": 1}, KObject},
		{struct{ A int }{1}, KObject},
		{&struct{ A int }{1}, KObject},
		{"foo", KString},
		{now, KDate},
		{&now, KDate},
		{regexp.MustCompile("a+"), KRegexp},
		{func() {}, KFunction},
		{true, KBoolean},
		{1, KNumber},
		{1.5, KNumber},
		{uint8(1), KNumber},
		{nil, KNull},
		{nilPtr, KNull},
		{Undefined, KUndefined},
		{map[int]int{}, KMap},
		{make(chan int), KChan},
		{errors.New("boom"), KError},
		{complex(1, 2), KComplex},
	}

	for idx, testCase := range cases {
		if actual := TypeOf(testCase.in); actual != testCase.out {
			t.Errorf("case %d: expected %s; got %s", idx, testCase.out, actual)
		}
	}
}

func TestLengthOf(t *testing.T) {
	cases := []struct {
		in        interface{}
		length    int
		hasLength bool
	}{
		{"str", 3, true},
		{"héllo", 5, true},
		{[]int{1, 2}, 2, true},
		{[0]int{}, 0, true},
		{map[string]int{"a": 1}, 1, true},
		{func(x, y int) int { return x + y }, 2, true},
		{func(x int, rest ...int) {}, 1, true},
		{sized{7}, 7, true},
		{&[]int{1}, 1, true},
		{5, 0, false},
		{struct{}{}, 0, false},
		{nil, 0, false},
		{(*bytes.Buffer)(nil), 0, false},
		{(*sized)(nil), 0, false},
		{bytes.NewBufferString("abcd"), 4, true},
	}

	for idx, testCase := range cases {
		length, ok := LengthOf(testCase.in)
		if ok != testCase.hasLength || length != testCase.length {
			t.Errorf(
				"case %d: expected (%d, %v); got (%d, %v)",
				idx, testCase.length, testCase.hasLength, length, ok,
			)
		}
	}
}
