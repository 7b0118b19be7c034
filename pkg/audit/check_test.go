package audit

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleValues() []interface{} {
	var nilPtr *int
	return []interface{}{
		[]int{1, 2, 3},
		[]string{},
		map[string]interface{}{"a": 1},
		struct{ Name string }{"bob"},
		"foo",
		"",
		time.Date(2014, 10, 1, 18, 0, 0, 0, time.UTC),
		regexp.MustCompile("a+"),
		func(a, b int) int { return a + b },
		true,
		0,
		3.14,
		nil,
		nilPtr,
		Undefined,
	}
}

func TestIsMatchesTypeOf(t *testing.T) {
	for _, v := range sampleValues() {
		for _, kind := range Kinds {
			for _, sig := range []string{string(kind), strings.ToUpper(string(kind))} {
				_, err := Is(sig, v)
				if (err == nil) != (TypeOf(v) == kind) {
					t.Errorf("Is(%q, %s): got err=%v; TypeOf is %s", sig, FormatValue(v), err, TypeOf(v))
				}
			}
		}
	}
}

func TestLengthConstraintAgreesWithPlainCheck(t *testing.T) {
	for _, v := range sampleValues() {
		n, ok := LengthOf(v)
		if !ok {
			continue
		}
		for _, kind := range Kinds {
			_, plainErr := Is(string(kind), v)
			_, lenErr := Is(fmt.Sprintf("%s:%d", kind, n), v)
			if (plainErr == nil) != (lenErr == nil) {
				t.Errorf("%s:%d on %s: plain err=%v; length err=%v", kind, n, FormatValue(v), plainErr, lenErr)
			}
		}
	}
}

func TestIsScenarios(t *testing.T) {
	require.Equal(t, KArray, TypeOf([]int{1, 2, 3}))

	out, err := Is("string", "foo")
	require.NoError(t, err)
	require.Equal(t, "foo", out)

	_, err = Is("number", "foo")
	require.EqualError(t, err, `"foo" is not a number. It's a string`)
	mismatch, ok := err.(*TypeMismatch)
	require.True(t, ok)
	require.Equal(t, KNumber, mismatch.Expected)
	require.Equal(t, KString, mismatch.Actual)
	require.Equal(t, "foo", mismatch.Value)

	_, err = Is("array:3", []int{1, 2})
	require.EqualError(t, err, `[1, 2] does not have the length 3. It's 2`)
	lengthErr, ok := err.(*LengthMismatch)
	require.True(t, ok)
	require.Equal(t, 3, lengthErr.Expected)
	require.Equal(t, 2, lengthErr.Actual)
	require.True(t, lengthErr.HasLength)

	_, err = Is("array:0", []int{1})
	require.IsType(t, &LengthMismatch{}, err)

	_, err = Is("object:1", struct{ A int }{1})
	require.EqualError(t, err, `{A: 1} does not have the length 1. It has no length`)

	_, err = Is("array:x", []int{})
	require.IsType(t, &BadSignature{}, err)
}

func TestLengthOnNilPointerWithLen(t *testing.T) {
	var buf *bytes.Buffer
	_, err := Is("null:0", buf)
	lengthErr, ok := err.(*LengthMismatch)
	require.True(t, ok)
	require.False(t, lengthErr.HasLength)

	_, err = Is("null", buf)
	require.NoError(t, err)
}

func TestIsReturnsSameValue(t *testing.T) {
	type point struct{ X, Y int }
	p := &point{1, 2}

	out, err := Is("object", p)
	require.NoError(t, err)
	require.True(t, out.(*point) == p)
	require.Equal(t, point{1, 2}, *p)

	c, err := IsType("object:2")
	require.NoError(t, err)
	m := map[string]int{"a": 1, "b": 2}
	for i := 0; i < 2; i++ {
		got, err := Pass(c, m)
		require.NoError(t, err)
		require.Equal(t, map[string]int{"a": 1, "b": 2}, got)
	}
}

func TestConvenienceCheckers(t *testing.T) {
	cases := []struct {
		check func(interface{}) (interface{}, error)
		pass  interface{}
		fail  interface{}
	}{
		{IsNumber, 1, "1"},
		{IsString, "a", 1},
		{IsArray, []int{}, map[string]int{}},
		{IsObject, map[string]int{}, []int{}},
		{IsDate, time.Now(), "2014-10-01"},
		{IsFunction, func() {}, 1},
		{IsRegExp, regexp.MustCompile("."), "."},
		{IsBoolean, false, 0},
		{IsNull, nil, Undefined},
		{IsUndefined, Undefined, nil},
	}

	for idx, testCase := range cases {
		_, err := testCase.check(testCase.pass)
		require.NoError(t, err, "case %d", idx)
		_, err = testCase.check(testCase.fail)
		require.IsType(t, &TypeMismatch{}, err, "case %d", idx)
	}
}

func TestMap(t *testing.T) {
	out, err := Map("number", []int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, out)

	_, err = Map("number", []interface{}{1, "a", "b"})
	require.EqualError(t, err, `"a" is not a number. It's a string`)

	_, err = Map("string:1", []string{"a", "bc", "def"})
	lengthErr, ok := err.(*LengthMismatch)
	require.True(t, ok)
	require.Equal(t, "bc", lengthErr.Value)

	_, err = Map("number", "abc")
	require.EqualError(t, err, `"abc" is not a array. It's a string`)

	_, err = Map("number", &[2]float64{1, 2})
	require.NoError(t, err)

	_, err = Map("number", []int{})
	require.NoError(t, err)

	_, err = Map("", []int{})
	require.IsType(t, &BadSignature{}, err)

	c, err := MapType("string")
	require.NoError(t, err)
	require.Equal(t, "array<string>", c.Format().String())
}

func TestMapAgreesWithIs(t *testing.T) {
	seq := []interface{}{1, "a", 2.5, nil}
	for _, kind := range Kinds {
		allPass := true
		for _, e := range seq {
			if _, err := Is(string(kind), e); err != nil {
				allPass = false
			}
		}
		_, err := Map(string(kind), seq)
		require.Equal(t, allPass, err == nil, "kind %s", kind)
	}
}

func TestSatisfies(t *testing.T) {
	greaterThan4 := func(v interface{}) bool {
		n, ok := v.(int)
		return ok && n > 4
	}

	out, err := Satisfies("> 4", greaterThan4, 5)
	require.NoError(t, err)
	require.Equal(t, 5, out)

	_, err = Satisfies("> 4", greaterThan4, 3)
	require.EqualError(t, err, "3 did not meet the condition > 4")
	failed, ok := err.(*ConditionFailed)
	require.True(t, ok)
	require.Equal(t, 3, failed.Value)
	require.Equal(t, "> 4", failed.Condition)

	require.Equal(t, "condition(> 4)", Condition("> 4", greaterThan4).Format().String())
}

func TestNotNullOrUndefined(t *testing.T) {
	var nilPtr *int
	var nilSlice []int
	var nilMap map[string]int

	cases := []struct {
		in     interface{}
		strict bool
		loose  bool
	}{
		{nil, false, false},
		{Undefined, false, false},
		{nilPtr, false, false},
		{nilSlice, false, false},
		{nilMap, false, false},
		{0, true, false},
		{"", true, false},
		{false, true, false},
		{math.NaN(), true, false},
		{0.0, true, false},
		{1, true, true},
		{"a", true, true},
		{true, true, true},
		{[]int{}, true, true},
		{struct{}{}, true, true},
	}

	for idx, testCase := range cases {
		_, err := NotNullOrUndefined(testCase.in)
		require.Equal(t, testCase.strict, err == nil, "case %d strict", idx)
		if err != nil {
			require.IsType(t, &MissingValue{}, err)
		}
		_, err = NotFalsy(testCase.in)
		require.Equal(t, testCase.loose, err == nil, "case %d loose", idx)
	}

	_, err := NotFalsy(0)
	require.EqualError(t, err, "expected a value, but got 0")
}

func TestAll(t *testing.T) {
	shortName, err := Expr(".length < 4")
	require.NoError(t, err)
	c := All(MustParseSignature("string"), shortName)

	require.NoError(t, c.Check("bob"))
	require.IsType(t, &TypeMismatch{}, c.Check(3))
	require.IsType(t, &ConditionFailed{}, c.Check("alice"))
	require.Equal(t, "string & condition(.length < 4)", c.Format().String())
}

func TestMust(t *testing.T) {
	require.Equal(t, "foo", Must(Is("string", "foo")))
	require.PanicsWithValue(t, `contract violation: "foo" is not a number. It's a string`, func() {
		Must(Is("number", "foo"))
	})

	name, err := Pass(MustParseSignature("string:3"), "bob")
	require.NoError(t, err)
	require.Equal(t, "bob", name)
}
