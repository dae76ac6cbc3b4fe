package tui

import (
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

func TestClipLine(t *testing.T) {
	t.Run("short line is returned unchanged", func(t *testing.T) {
		if got := clipLine("hello", 10); got != "hello" {
			t.Errorf("expected %q, got %q", "hello", got)
		}
	})

	t.Run("long line is clipped with ellipsis", func(t *testing.T) {
		got := clipLine("hello world", 8)
		if got != "hello .." {
			t.Errorf("expected %q, got %q", "hello ..", got)
		}
	})

	t.Run("wide runes clip on cell width and stay valid UTF-8", func(t *testing.T) {
		line := "朝のコーヒーを淹れてから散歩に出た"
		width := 10
		got := clipLine(line, width)
		if !utf8.ValidString(got) {
			t.Errorf("clipped line is not valid UTF-8: %q", got)
		}
		if w := runewidth.StringWidth(got); w > width {
			t.Errorf("clipped line is %d cells wide, want at most %d", w, width)
		}
		if len(got) < 2 || got[len(got)-2:] != ".." {
			t.Errorf("expected trailing ellipsis, got %q", got)
		}
	})

	t.Run("tiny width clips without ellipsis", func(t *testing.T) {
		got := clipLine("日記を書く", 2)
		if !utf8.ValidString(got) {
			t.Errorf("clipped line is not valid UTF-8: %q", got)
		}
		if w := runewidth.StringWidth(got); w > 2 {
			t.Errorf("clipped line is %d cells wide, want at most 2", w)
		}
	})
}
