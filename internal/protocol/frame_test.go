package protocol

import (
	"reflect"
	"testing"
)

func TestFrameScannerSingleFrame(t *testing.T) {
	s := NewFrameScanner()
	frames, dropped := s.Feed([]byte("hello\r\n"))
	if dropped != 0 {
		t.Errorf("dropped = %d; want 0", dropped)
	}
	if !reflect.DeepEqual(frames, []string{"hello"}) {
		t.Errorf("frames = %v; want [hello]", frames)
	}
}

func TestFrameScannerAcrossMultipleFeeds(t *testing.T) {
	s := NewFrameScanner()
	frames, _ := s.Feed([]byte("he"))
	if len(frames) != 0 {
		t.Fatalf("partial frame yielded %v; want none", frames)
	}
	frames, _ = s.Feed([]byte("llo\r\n"))
	if !reflect.DeepEqual(frames, []string{"hello"}) {
		t.Errorf("frames = %v; want [hello]", frames)
	}
}

func TestFrameScannerMultipleFramesInOneFeed(t *testing.T) {
	s := NewFrameScanner()
	frames, _ := s.Feed([]byte("a\r\nb\r\nc\r\n"))
	if !reflect.DeepEqual(frames, []string{"a", "b", "c"}) {
		t.Errorf("frames = %v; want [a b c]", frames)
	}
}

func TestFrameScannerToleratesBareLF(t *testing.T) {
	s := NewFrameScanner()
	frames, _ := s.Feed([]byte("noCR\n"))
	if !reflect.DeepEqual(frames, []string{"noCR"}) {
		t.Errorf("frames = %v; want [noCR]", frames)
	}
}

func TestFrameScannerDropsInvalidUTF8(t *testing.T) {
	s := NewFrameScanner()
	frames, dropped := s.Feed([]byte{0xff, 0xfe, '\n'})
	if dropped != 1 {
		t.Errorf("dropped = %d; want 1", dropped)
	}
	if len(frames) != 0 {
		t.Errorf("frames = %v; want none", frames)
	}
}

func TestEncodeFrameAppendsTerminator(t *testing.T) {
	got := EncodeFrame([]byte("payload"))
	want := "payload\r\n"
	if string(got) != want {
		t.Errorf("EncodeFrame = %q; want %q", got, want)
	}
}
