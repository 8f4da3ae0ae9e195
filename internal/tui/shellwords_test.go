package tui

import (
	"reflect"
	"testing"
)

func TestSplitShellWords(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"vim", []string{"vim"}},
		{"  code --wait  ", []string{"code", "--wait"}},
		{`"/Applications/My Editor" -w`, []string{"/Applications/My Editor", "-w"}},
		{`emacs -nw '--eval=(x y)'`, []string{"emacs", "-nw", "--eval=(x y)"}},
		{`a\ b c`, []string{"a b", "c"}},
		{`''`, []string{""}},
		{"", nil},
	}
	for _, tc := range cases {
		if got := splitShellWords(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitShellWords(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}
