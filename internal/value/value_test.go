package value

import (
	"regexp"
	"testing"
)

type src struct{}

func (src) Source() string { return "() => 1" }

func TestTypeOf(t *testing.T) {
	var nilMap map[string]int
	var nilFunc func()
	tcs := []struct {
		in   any
		want Tag
	}{
		{1, TagNumber},
		{uint8(1), TagNumber},
		{1.5, TagNumber},
		{true, TagBoolean},
		{"s", TagString},
		{src{}, TagFunction},
		{func() {}, TagFunction},
		{nilFunc, TagObject},
		{Symbol{Description: "x"}, TagSymbol},
		{Undefined, TagUndefined},
		{nil, TagObject},
		{nilMap, TagObject},
		{[]int{1}, TagObject},
		{regexp.MustCompile("a"), TagObject},
		{NumberObject(1), TagObject},
		{BooleanObject(true), TagObject},
		{StringObject("s"), TagObject},
		{[]byte("b"), TagObject},
	}
	for _, tc := range tcs {
		if got := TypeOf(tc.in); got != tc.want {
			t.Errorf("TypeOf(%#v): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestParseTag(t *testing.T) {
	if tag, ok := ParseTag("buffer"); !ok || tag != TagBuffer {
		t.Fatalf("expected buffer tag, got %q %v", tag, ok)
	}
	if _, ok := ParseTag("widget"); ok {
		t.Fatal("expected unknown tag to be rejected")
	}
}

func TestCollectionPredicates(t *testing.T) {
	if IsIndexed([]byte("x")) || !IsBuffer([]byte("x")) {
		t.Error("byte slices are buffers, not arrays")
	}
	if !IsIndexed([2]string{}) {
		t.Error("arrays are indexed")
	}
	if !IsNull((*int)(nil)) || IsNull(0) {
		t.Error("IsNull mismatch")
	}
	if got := Items([]int{1, 2}); len(got) != 2 || got[1] != 2 {
		t.Errorf("unexpected items %v", got)
	}
	if string(Bytes(Buffer("hi"))) != "hi" {
		t.Error("expected Buffer contents")
	}
}
