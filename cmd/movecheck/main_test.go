package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/park285/oh-my-chess/internal/httpapi"
	"github.com/park285/oh-my-chess/internal/movecheck"
	"github.com/park285/oh-my-chess/internal/msgcat"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("REMOTE_BASE_URL", "")
	t.Setenv("MESSAGES_DIR", "")
	t.Setenv("OHMYCHESS_CONFIG", "")
	t.Setenv("REMOTE_TIMEOUT", "")
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunLocal(t *testing.T) {
	code, out, _ := runCLI(t, "-from", "e2", "-to", "e3")
	if code != exitLegal || !strings.HasPrefix(out, "LEGAL (legal)") {
		t.Fatalf("e2e3: code=%d out=%q", code, out)
	}

	code, out, _ = runCLI(t, "-from", "c1", "-to", "f4")
	if code != exitIllegal || !strings.Contains(out, "(blocked)") {
		t.Fatalf("c1f4: code=%d out=%q", code, out)
	}

	code, out, _ = runCLI(t, "-from", "e7", "-to", "e6", "-mover", "white")
	if code != exitIllegal || !strings.Contains(out, "not_owner") {
		t.Fatalf("e7e6 as white: code=%d out=%q", code, out)
	}
}

func TestRunUsageErrors(t *testing.T) {
	if code, _, stderr := runCLI(t, "-from", "e2"); code != exitError || !strings.Contains(stderr, "usage") {
		t.Fatalf("missing -to: code=%d stderr=%q", code, stderr)
	}
	if code, _, _ := runCLI(t, "-from", "z9", "-to", "e4"); code != exitError {
		t.Fatalf("bad square: code=%d", code)
	}
	if code, _, _ := runCLI(t, "-fen", "garbage", "-from", "e2", "-to", "e4"); code != exitError {
		t.Fatalf("bad fen: code=%d", code)
	}
	if code, _, _ := runCLI(t, "-from", "e2", "-to", "e4", "-mover", "green"); code != exitError {
		t.Fatalf("bad mover: code=%d", code)
	}
}

func TestRunWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	code, _, stderr := runCLI(t, "-from", "g1", "-to", "f3", "-png", path, "-square-size", "20")
	if code != exitLegal {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	raw, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Fatalf("png not written: %v", err)
	}
}

func TestRunWritesFlippedPNG(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.png")
	flipped := filepath.Join(dir, "flipped.png")
	if code, _, stderr := runCLI(t, "-from", "g1", "-to", "f3", "-png", plain, "-square-size", "20"); code != exitLegal {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	if code, _, stderr := runCLI(t, "-from", "g1", "-to", "f3", "-png", flipped, "-square-size", "20", "-flip"); code != exitLegal {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	a, errA := os.ReadFile(plain)
	b, errB := os.ReadFile(flipped)
	if errA != nil || errB != nil {
		t.Fatalf("read: %v %v", errA, errB)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("-flip had no effect")
	}
}

func TestRunRemote(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := httpapi.New(movecheck.NewService(), nil, msgcat.MustDefault(), nil, httpapi.Options{})
	go func() { _ = fasthttp.Serve(ln, srv.Handler()) }()
	defer ln.Close()

	code, out, stderr := runCLI(t, "-remote", "http://"+ln.Addr().String(), "-from", "b8", "-to", "c6", "-mover", "black")
	if code != exitLegal || !strings.Contains(out, "LEGAL") {
		t.Fatalf("remote b8c6: code=%d out=%q stderr=%q", code, out, stderr)
	}
}
