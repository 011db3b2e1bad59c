package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBinary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "nanobox-test")
	if err != nil {
		panic(err)
	}
	testBinary = filepath.Join(dir, "nanobox")
	cmd := exec.Command("go", "build", "-o", testBinary, ".") //nolint:gosec // test binary path is controlled by TestMain
	cmd.Dir = "."
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("build failed: " + err.Error())
	}
	code := m.Run()
	_ = os.RemoveAll(dir) //nolint:gosec // best-effort cleanup
	os.Exit(code)
}

// runCLI executes the built binary with args in an isolated temp HOME directory.
// It returns stdout, stderr, and the process exit code.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	return runBinary(t, testBinary, "", args...)
}

// runCLIInput is runCLI with stdin fed from input.
func runCLIInput(t *testing.T, input string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	return runBinary(t, testBinary, input, args...)
}

func runBinary(t *testing.T, binary, input string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	home := t.TempDir()

	cmd := exec.Command(binary, args...) //nolint:gosec // test binary path controlled by test setup
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"TZ=UTC",
	)
	cmd.Stdin = strings.NewReader(input)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode = 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run CLI: %v", err)
		}
	}

	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// --- root ---

func TestCLI_NoArgs(t *testing.T) {
	_, _, exitCode := runCLI(t)
	assert.NotEqual(t, 0, exitCode, "no command should exit non-zero")
}

func TestCLI_UnknownCommand(t *testing.T) {
	_, _, exitCode := runCLI(t, "nonexistent")
	assert.NotEqual(t, 0, exitCode, "unknown command should exit non-zero")
}

// --- list command ---

func TestCLI_List(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "list")

	assert.Equal(t, 0, exitCode)
	names := strings.Fields(stdout)
	assert.Equal(t, []string{"date", "touch", "mv", "shred", "ionice", "kernel-version", "rtmap"}, names)
}

func TestCLI_ListJSON(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "list", "--json")

	assert.Equal(t, 0, exitCode)
	var got []applet
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, len(applets))
	assert.Equal(t, "mv", got[2].Name)
	assert.NotEmpty(t, got[2].Usage)
}

// --- multi-call ---

func TestCLI_MultiCallLink(t *testing.T) {
	link := filepath.Join(t.TempDir(), "kernel-version")
	require.NoError(t, os.Symlink(testBinary, link))

	stdout, _, exitCode := runBinary(t, link, "", "--release", "4.19.128-microsoft")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "267136 4.19.128\n", stdout)
}

// --- kernel-version command ---

func TestCLI_KernelVersionRelease(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "kernel-version", "--release", "5.15.0-91-generic")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "331520 5.15.0\n", stdout)
}

func TestCLI_KernelVersionJSON(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "kernel-version", "--release", "2.6", "--json")

	assert.Equal(t, 0, exitCode)
	var got kernelResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, kernelResult{Release: "2.6", Code: 2<<16 + 6<<8, Version: "2.6.0"}, got)
}

func TestCLI_KernelVersionRunning(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("uname release is only read on linux")
	}
	stdout, _, exitCode := runCLI(t, "kernel-version")

	assert.Equal(t, 0, exitCode)
	assert.Regexp(t, `^\d+ \d+\.\d+\.\d+\n$`, stdout)
}

// --- date command ---

func TestCLI_DateEpoch(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "date", "-u", "-d", "@86400", "+%Y-%m-%d %H:%M:%S")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "1970-01-02 00:00:00\n", stdout)
}

func TestCLI_DateZoned(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "date", "-u", "-d", "2024-03-05 14:30 +0200", "+%H:%M")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "12:30\n", stdout)
}

func TestCLI_DateCompact(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "date", "-u", "-d", "202401021530.45", "+%Y-%m-%d %H:%M:%S")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "2024-01-02 15:30:45\n", stdout)
}

func TestCLI_DateDefaultFormat(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "date", "-u", "-d", "2024-03-05 14:30:09")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "Tue Mar  5 14:30:09 UTC 2024\n", stdout)
}

func TestCLI_DateMinimal(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "date", "-u", "--minimal", "-d", "2024-03-05 07", "+%Y-%m-%d %H")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "2024-03-05 07\n", stdout)

	_, stderr, exitCode := runCLI(t, "date", "-u", "--minimal", "-d", "Mar 05 14:30:00 2024")
	assert.Equal(t, ExitInvalidInput, exitCode)
	assert.Contains(t, stderr, "invalid date")
}

func TestCLI_DateInvalid(t *testing.T) {
	_, stderr, exitCode := runCLI(t, "date", "-d", "bogus")

	assert.Equal(t, ExitInvalidInput, exitCode)
	assert.Contains(t, stderr, "date:")
	assert.Contains(t, stderr, "invalid date 'bogus'")
}

func TestCLI_DateInvalidJSON(t *testing.T) {
	_, stderr, exitCode := runCLI(t, "date", "-d", "99:99", "--json")

	assert.Equal(t, ExitInvalidInput, exitCode)
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stderr)), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "invalid_date", resp.Error)
	assert.Equal(t, "date", resp.Applet)
}

func TestCLI_DateJSON(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "date", "-u", "-d", "@0", "--json", "+%Y")

	assert.Equal(t, 0, exitCode)
	var got dateResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, dateResult{Formatted: "1970", Unix: 0, RFC3339: "1970-01-01T00:00:00Z", Kind: "resolved"}, got)
}

func TestCLI_DateBadFormatOperand(t *testing.T) {
	_, _, exitCode := runCLI(t, "date", "%Y")
	assert.Equal(t, ExitUsage, exitCode)
}

// --- touch command ---

func TestCLI_TouchCreates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "new")

	_, _, exitCode := runCLI(t, "touch", file)
	assert.Equal(t, 0, exitCode)
	assert.FileExists(t, file)
}

func TestCLI_TouchNoCreate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "new")

	_, _, exitCode := runCLI(t, "touch", "-c", file)
	assert.Equal(t, 0, exitCode)
	assert.NoFileExists(t, file)
}

func TestCLI_TouchDate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeTestFile(t, file, "x")

	_, _, exitCode := runCLI(t, "touch", "-d", "2001-02-03 04:05:06", file)
	require.Equal(t, 0, exitCode)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)), info.ModTime())
}

func TestCLI_TouchStamp(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeTestFile(t, file, "x")

	_, _, exitCode := runCLI(t, "touch", "-t", "199912312359.30", file)
	require.Equal(t, 0, exitCode)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(time.Date(1999, 12, 31, 23, 59, 30, 0, time.UTC)), info.ModTime())
}

func TestCLI_TouchStampRejectsTemplates(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")

	_, _, exitCode := runCLI(t, "touch", "-t", "12:30", file)
	assert.Equal(t, ExitInvalidInput, exitCode)
	assert.NoFileExists(t, file)
}

func TestCLI_TouchReference(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref")
	file := filepath.Join(dir, "f")
	writeTestFile(t, ref, "r")
	writeTestFile(t, file, "f")
	when := time.Date(2010, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, os.Chtimes(ref, when, when))

	_, _, exitCode := runCLI(t, "touch", "-r", ref, file)
	require.Equal(t, 0, exitCode)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(when), info.ModTime())
}

func TestCLI_TouchSourcesExclusive(t *testing.T) {
	_, _, exitCode := runCLI(t, "touch", "-d", "12:00", "-t", "1200", "f")
	assert.NotEqual(t, 0, exitCode)
}

// --- mv command ---

func TestCLI_MvRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dest := filepath.Join(dir, "b")
	writeTestFile(t, src, "hello")

	stdout, _, exitCode := runCLI(t, "mv", "-v", src, dest)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "'"+src+"' -> '"+dest+"'\n", stdout)
	assert.NoFileExists(t, src)
	assert.Equal(t, "hello", readTestFile(t, dest))
}

func TestCLI_MvIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	target := filepath.Join(dir, "target")
	writeTestFile(t, a, "A")
	writeTestFile(t, b, "B")
	require.NoError(t, os.Mkdir(target, 0o755))

	_, _, exitCode := runCLI(t, "mv", a, b, target)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "A", readTestFile(t, filepath.Join(target, "a")))
	assert.Equal(t, "B", readTestFile(t, filepath.Join(target, "b")))
}

func TestCLI_MvTargetDirectoryFlag(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	target := filepath.Join(dir, "target")
	writeTestFile(t, a, "A")
	require.NoError(t, os.Mkdir(target, 0o755))

	_, _, exitCode := runCLI(t, "mv", "-t", target, a)
	assert.Equal(t, 0, exitCode)
	assert.FileExists(t, filepath.Join(target, "a"))
}

func TestCLI_MvNoClobber(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dest := filepath.Join(dir, "b")
	writeTestFile(t, src, "new")
	writeTestFile(t, dest, "old")

	_, _, exitCode := runCLI(t, "mv", "-n", src, dest)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "old", readTestFile(t, dest))
	assert.FileExists(t, src)
}

func TestCLI_MvLastOverwriteFlagWins(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dest := filepath.Join(dir, "b")
	writeTestFile(t, src, "new")
	writeTestFile(t, dest, "old")

	_, _, exitCode := runCLI(t, "mv", "-f", "-n", src, dest)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "old", readTestFile(t, dest), "-n given last keeps the destination")

	_, _, exitCode = runCLI(t, "mv", "-nf", src, dest)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "new", readTestFile(t, dest), "-f given last overwrites")
}

func TestCLI_MvInteractive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dest := filepath.Join(dir, "b")
	writeTestFile(t, src, "new")
	writeTestFile(t, dest, "old")

	_, stderr, exitCode := runCLIInput(t, "n\n", "mv", "-i", src, dest)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stderr, "overwrite '"+dest+"'?")
	assert.Equal(t, "old", readTestFile(t, dest))

	_, _, exitCode = runCLIInput(t, "  yes\n", "mv", "-i", src, dest)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "new", readTestFile(t, dest))
}

func TestCLI_MvNoTargetDirectoryOntoDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	target := filepath.Join(dir, "target")
	writeTestFile(t, src, "A")
	require.NoError(t, os.Mkdir(target, 0o755))

	_, stderr, exitCode := runCLI(t, "mv", "-T", src, target)
	assert.Equal(t, ExitFailure, exitCode)
	assert.Contains(t, stderr, "'"+target+"' is a directory")
	assert.FileExists(t, src)
}

func TestCLI_MvNoTargetDirectoryRenamesDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.Mkdir(target, 0o755))

	_, _, exitCode := runCLI(t, "mv", "-T", src, target)
	assert.Equal(t, 0, exitCode)
	assert.NoDirExists(t, src)
	assert.DirExists(t, target)
}

func TestCLI_MvTargetFlagsExclusive(t *testing.T) {
	dir := t.TempDir()
	_, _, exitCode := runCLI(t, "mv", "-T", "-t", dir, "a")
	assert.NotEqual(t, 0, exitCode)
}

func TestCLI_MvMissingDestination(t *testing.T) {
	_, stderr, exitCode := runCLI(t, "mv", "only")
	assert.Equal(t, ExitUsage, exitCode)
	assert.Contains(t, stderr, "missing destination")
}

func TestCLI_MvContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good")
	missing := filepath.Join(dir, "missing")
	target := filepath.Join(dir, "target")
	writeTestFile(t, good, "G")
	require.NoError(t, os.Mkdir(target, 0o755))

	_, stderr, exitCode := runCLI(t, "mv", missing, good, target)
	assert.Equal(t, ExitFailure, exitCode)
	assert.Contains(t, stderr, "can't rename '"+missing+"'")
	assert.FileExists(t, filepath.Join(target, "good"))
}

// --- shred command ---

func TestCLI_ShredZero(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeTestFile(t, file, "secret")

	_, _, exitCode := runCLI(t, "shred", "-n", "0", "-z", file)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, string(make([]byte, 6)), readTestFile(t, file))
}

func TestCLI_ShredRandomChangesContent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	content := strings.Repeat("secret", 100)
	writeTestFile(t, file, content)

	_, _, exitCode := runCLI(t, "shred", "-n", "1", file)
	assert.Equal(t, 0, exitCode)
	got := readTestFile(t, file)
	assert.Len(t, got, len(content))
	assert.NotEqual(t, content, got)
}

func TestCLI_ShredRemove(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeTestFile(t, file, "secret")

	_, _, exitCode := runCLI(t, "shred", "-u", file)
	assert.Equal(t, 0, exitCode)
	assert.NoFileExists(t, file)
}

func TestCLI_ShredVerbose(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeTestFile(t, file, "secret")

	_, stderr, exitCode := runCLI(t, "shred", "-v", "-n", "2", "-z", file)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stderr, "pass 1/3 (random)")
	assert.Contains(t, stderr, "pass 3/3 (000000)")
}

func TestCLI_ShredContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")
	file := filepath.Join(dir, "f")
	writeTestFile(t, file, "secret")

	_, stderr, exitCode := runCLI(t, "shred", "-n", "0", "-z", missing, file)
	assert.Equal(t, ExitFailure, exitCode)
	assert.Contains(t, stderr, "can't open '"+missing+"'")
	assert.Equal(t, string(make([]byte, 6)), readTestFile(t, file))
}

func TestCLI_ShredInvalidSize(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeTestFile(t, file, "secret")

	_, _, exitCode := runCLI(t, "shred", "-s", "lots", file)
	assert.Equal(t, ExitInvalidInput, exitCode)
	assert.Equal(t, "secret", readTestFile(t, file))
}

// --- rtmap command ---

func TestCLI_RtmapType(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "rtmap", "type", "unicast", "brd", "0x10")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "1\tunicast\n3\tbroadcast\n16\t16\n", stdout)
}

func TestCLI_RtmapTypeInvalid(t *testing.T) {
	stdout, stderr, exitCode := runCLI(t, "rtmap", "type", "bogus", "local")

	assert.Equal(t, ExitFailure, exitCode)
	assert.Contains(t, stderr, "bogus")
	assert.Equal(t, "2\tlocal\n", stdout)
}

func TestCLI_RtmapRealms(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rt_realms")
	writeTestFile(t, file, "# realms\n1 inr\n2 outr\n")

	stdout, _, exitCode := runCLI(t, "rtmap", "realms", "--file", file, "inr/outr", "7")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "0x00010002\tinr/outr\n0x00000007\t7\n", stdout)
}

// --- ionice command ---

func TestCLI_IoniceBadClass(t *testing.T) {
	_, stderr, exitCode := runCLI(t, "ionice", "-c", "9", "-p", "1")

	assert.Equal(t, ExitInvalidInput, exitCode)
	assert.Contains(t, stderr, "bad class 9")
}

func TestCLI_IoniceQuery(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("ioprio is linux only")
	}
	stdout, _, exitCode := runCLI(t, "ionice")

	assert.Equal(t, 0, exitCode)
	assert.Regexp(t, `^(none|realtime|best-effort): prio \d+\n$|^idle\n$`, stdout)
}

func TestCLI_IoniceRunsProgram(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("ioprio is linux only")
	}
	stdout, _, exitCode := runCLI(t, "ionice", "-c", "2", "-n", "7", "-t", "echo", "-n", "hi")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "hi", stdout)
}

func TestCLI_IoniceProgramNotFound(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("ioprio is linux only")
	}
	_, stderr, exitCode := runCLI(t, "ionice", "-c", "2", "-t", "no-such-program-anywhere")

	assert.Equal(t, exitNotFound, exitCode)
	assert.Contains(t, stderr, "can't execute 'no-such-program-anywhere'")
}

// --- config command ---

func TestCLI_ConfigShowDefaults(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "config", "show", "--json")

	assert.Equal(t, 0, exitCode)
	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.EqualValues(t, 3, got["shred"]["iterations"])
	assert.Equal(t, "/etc/iproute2/rt_realms", got["rtmap"]["realms_file"])
}

func TestCLI_ConfigInit(t *testing.T) {
	stdout, _, exitCode := runCLI(t, "config", "init")

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "config.json")
}
