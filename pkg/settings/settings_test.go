package settings

import (
	"path/filepath"
	"testing"

	"github.com/supportdesk/ticketbot/pkg/store"
)

func openStore(t *testing.T, path string) *store.Store {
	t.Helper()
	s, err := store.New(path)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_Defaults(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	s, err := Load(st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Prefix.Get() != DefaultPrefix {
		t.Errorf("prefix = %q", s.Prefix.Get())
	}
	if s.AcceptingTickets.Get() {
		t.Error("accepting tickets should default to false")
	}
	if s.EmbedColor.Get() != DefaultEmbedColor || s.ErrorColor.Get() != DefaultErrorColor {
		t.Errorf("colors = %x/%x", s.EmbedColor.Get(), s.ErrorColor.Get())
	}
	for _, k := range []string{KeyPrefix, KeyAcceptingTickets, KeyEmbedColor, KeyErrorColor} {
		if !st.Contains(k) {
			t.Errorf("default for %q not persisted", k)
		}
	}
}

func TestLoad_PersistedAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.db")
	st := openStore(t, path)
	s, _ := Load(st)
	s.Prefix.Set("?")
	s.AcceptingTickets.Set(true)
	st.Close()

	st2 := openStore(t, path)
	s2, err := Load(st2)
	if err != nil {
		t.Fatal(err)
	}
	if s2.Prefix.Get() != "?" || !s2.AcceptingTickets.Get() {
		t.Fatalf("after restart prefix=%q accepting=%v", s2.Prefix.Get(), s2.AcceptingTickets.Get())
	}
}

func TestEmbeds_UseCurrentColors(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	s, err := Load(st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e := s.Embed("Result", "Yes"); e.Color != DefaultEmbedColor || e.Title != "Result" {
		t.Fatalf("Embed = %+v", e)
	}
	if err := s.ErrorColor.Set(0x123456); err != nil {
		t.Fatal(err)
	}
	e := s.ErrorEmbed("nope")
	if e.Title != ErrorTitle || e.Color != 0x123456 || e.Description != "nope" {
		t.Fatalf("ErrorEmbed = %+v", e)
	}
}
