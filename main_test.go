package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHN struct {
	mu       sync.Mutex
	lists    map[string]string
	items    map[string]string
	requests []string
}

func (f *fakeHN) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	f.mu.Unlock()

	if body, ok := f.lists[r.URL.Path]; ok {
		fmt.Fprint(w, body)
		return
	}
	if body, ok := f.items[r.URL.Path]; ok {
		fmt.Fprint(w, body)
		return
	}
	http.Error(w, "unavailable", http.StatusServiceUnavailable)
}

func (f *fakeHN) itemRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, p := range f.requests {
		if strings.HasPrefix(p, "/item/") {
			out = append(out, p)
		}
	}
	return out
}

func newFakeHN() *fakeHN {
	return &fakeHN{
		lists: map[string]string{
			"/topstories.json":  "[]",
			"/newstories.json":  "[]",
			"/beststories.json": "[]",
			"/askstories.json":  "[]",
			"/showstories.json": "[1,2,3]",
			"/jobstories.json":  "[]",
		},
		items: map[string]string{
			"/item/1.json": `{"by":"u","id":1,"score":5,"title":"T","type":"story"}`,
		},
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	chdir(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func storyLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "Story #") {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestCLI_PrintsOneShowStory(t *testing.T) {
	hn := newFakeHN()
	server := httptest.NewServer(hn)
	defer server.Close()

	out, _, err := run(t, "--base-url", server.URL, "--category", "show", "--amount", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Story Type: Show\n")
	lines := storyLines(out)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "id: 1")
	assert.Contains(t, lines[0], "T")
	assert.Equal(t, "Story #0 - id: 1 - T", lines[0])
	assert.Equal(t, []string{"/item/1.json"}, hn.itemRequests())
}

func TestCLI_ZeroAmountFetchesNoItems(t *testing.T) {
	hn := newFakeHN()
	server := httptest.NewServer(hn)
	defer server.Close()

	out, _, err := run(t, "--base-url", server.URL, "--amount", "0")
	require.NoError(t, err)

	assert.Empty(t, hn.itemRequests())
	assert.Empty(t, storyLines(out))
	for _, name := range []string{"Show", "Job", "Best", "Top", "New", "Ask"} {
		assert.Contains(t, out, "Story Type: "+name)
	}
	assert.Less(t, strings.Index(out, "Story Type: Show"), strings.Index(out, "Story Type: Ask"))
}

func TestCLI_FailedFeedIsReportedAndOthersPrinted(t *testing.T) {
	hn := newFakeHN()
	delete(hn.lists, "/newstories.json")
	server := httptest.NewServer(hn)
	defer server.Close()

	out, errOut, err := run(t, "--base-url", server.URL, "--amount", "1")
	require.Error(t, err)

	assert.NotContains(t, out, "Story Type: New")
	assert.Contains(t, out, "Story #0 - id: 1 - T")
	assert.Contains(t, errOut, "New")
}

func TestCLI_FailFastPrintsNothing(t *testing.T) {
	hn := newFakeHN()
	delete(hn.lists, "/newstories.json")
	server := httptest.NewServer(hn)
	defer server.Close()

	out, _, err := run(t, "--base-url", server.URL, "--amount", "1", "--fail-fast")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Empty(t, hn.itemRequests())
}

func TestCLI_IDs(t *testing.T) {
	server := httptest.NewServer(newFakeHN())
	defer server.Close()

	out, _, err := run(t, "ids", "--base-url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Show: 3 ids [1, 2, 3]")
	assert.Contains(t, out, "Top: 0 ids []")
}

func TestCLI_Item(t *testing.T) {
	server := httptest.NewServer(newFakeHN())
	defer server.Close()

	out, _, err := run(t, "item", "1", "--base-url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Story #0 - id: 1 - T")
	assert.Contains(t, out, "5 points | by u | story")
}

func TestCLI_ItemRejectsBadID(t *testing.T) {
	_, _, err := run(t, "item", "abc")
	assert.Error(t, err)
}

func TestCLI_RejectsUnknownCategory(t *testing.T) {
	_, _, err := run(t, "--category", "item", "--base-url", "http://127.0.0.1:1")
	assert.Error(t, err)
}

func TestCLI_RejectsNegativeAmount(t *testing.T) {
	_, _, err := run(t, "--amount", "-1", "--base-url", "http://127.0.0.1:1")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
