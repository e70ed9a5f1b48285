package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tk2emu/tk2000/config"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")

	st := config.NewStore(path)
	color := config.NewBool(false)
	leader := config.NewInt(500)
	if err := st.Add("video.colormode", color); err != nil {
		t.Fatal(err)
	}
	if err := st.Add("tape.cacycles", leader); err != nil {
		t.Fatal(err)
	}

	color.SetValue(true)
	leader.SetValue(9472)
	if err := st.Save(); err != nil {
		t.Fatal(err)
	}

	st2 := config.NewStore(path)
	color2 := config.NewBool(false)
	leader2 := config.NewInt(500)
	st2.Add("video.colormode", color2)
	st2.Add("tape.cacycles", leader2)
	if err := st2.Load(); err != nil {
		t.Fatal(err)
	}

	if !color2.Get() {
		t.Fatalf("loaded colormode = false, want true")
	}
	if leader2.Get() != 9472 {
		t.Fatalf("loaded cacycles = %d, want 9472", leader2.Get())
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	st := config.NewStore(filepath.Join(t.TempDir(), "nonexistent"))
	v := config.NewBool(true)
	st.Add("sound.enabled", v)
	if err := st.Load(); err != nil {
		t.Fatal(err)
	}
	if !v.Get() {
		t.Fatalf("missing file should keep the default value")
	}
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")
	st := config.NewStore(path)
	st.Add("b.key", config.NewBool(true))
	st.Add("a.key", config.NewInt(7))
	if err := st.Save(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "*tk2000_prefs\na.key :: 7\nb.key :: true\n"
	if string(raw) != want {
		t.Fatalf("file contents = %q, want %q", raw, want)
	}

	if !strings.HasPrefix(string(raw), "*") {
		t.Fatalf("expected a header line")
	}
}

func TestDuplicateKeyRejected(t *testing.T) {
	st := config.NewStore(filepath.Join(t.TempDir(), "prefs"))
	st.Add("k", config.NewBool(false))
	if err := st.Add("k", config.NewBool(false)); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestCallbackFiresOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")
	st := config.NewStore(path)
	v := config.NewBool(false)
	st.Add("sound.enabled", v)
	v.SetValue(true)
	st.Save()

	st2 := config.NewStore(path)
	v2 := config.NewBool(false)
	var seen []bool
	v2.SetCallback(func(b bool) { seen = append(seen, b) })
	st2.Add("sound.enabled", v2)
	if err := st2.Load(); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || !seen[0] {
		t.Fatalf("callback calls = %v, want [true]", seen)
	}
}
