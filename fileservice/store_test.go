package fileservice

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestStore_LoadMissingFileIsEmpty(t *testing.T) {
	Environment(func(filename string) {
		store := NewStore(filename)

		lines, err := store.Load()
		AssertEqual(err, nil)
		AssertEqual(len(lines), 0)
	})
}

func TestStore_SaveThenLoadRoundTrip(t *testing.T) {
	Environment(func(filename string) {
		store := NewStore(filename)

		want := []string{DefaultHeader, "1,Ana,30,Madrid,ClientA", "2,Luis,45,Sevilla,ClientB"}
		err := store.Save(want)
		AssertEqual(err, nil)

		got, err := store.Load()
		AssertEqual(err, nil)
		AssertEqual(len(got), len(want))
		for i := range want {
			AssertEqual(got[i], want[i])
		}
	})
}

func TestQuery_MatchesIncludeIdentifierField(t *testing.T) {
	lines := []string{DefaultHeader, "1,Ana,30,Madrid,ClientA", "2,Luis,45,Sevilla,ClientB"}

	matches, headerOnly := Query(lines, "1")
	AssertEqual(headerOnly, false)
	AssertEqual(len(matches), 2) // header + record "1,..."
	AssertEqual(matches[1], "1,Ana,30,Madrid,ClientA")
}

func TestQuery_NoMatchReturnsHeaderOnly(t *testing.T) {
	lines := []string{DefaultHeader, "1,Ana,30,Madrid,ClientA"}

	matches, headerOnly := Query(lines, "zzz-not-present")
	AssertEqual(headerOnly, true)
	AssertEqual(len(matches), 1)
}

func TestModify_ReplacesMatchingLine(t *testing.T) {
	lines := []string{DefaultHeader, "1,Ana,30,Madrid,ClientA", "2,Luis,45,Sevilla,ClientB"}

	out, found, err := Modify(lines, 2, "2,Luis,46,Sevilla,ClientB")
	AssertEqual(err, nil)
	AssertEqual(found, true)
	AssertEqual(out[2], "2,Luis,46,Sevilla,ClientB")
	AssertEqual(out[1], lines[1]) // untouched
}

func TestModify_MissingIDNotFound(t *testing.T) {
	lines := []string{DefaultHeader, "1,Ana,30,Madrid,ClientA"}

	_, found, err := Modify(lines, 99, "irrelevant")
	AssertEqual(err, nil)
	AssertEqual(found, false)
}

func TestModify_SkipsUnparseableExistingLines(t *testing.T) {
	lines := []string{DefaultHeader, "not-a-number,Ana,30,Madrid,ClientA", "2,Luis,45,Sevilla,ClientB"}

	out, found, err := Modify(lines, 2, "2,Luis,50,Sevilla,ClientB")
	AssertEqual(err, nil)
	AssertEqual(found, true)
	AssertEqual(out[1], lines[1]) // corrupt row left alone, not treated as a fatal error
	AssertEqual(out[2], "2,Luis,50,Sevilla,ClientB")
}

func TestDelete_RemovesMatchingLineKeepsHeader(t *testing.T) {
	lines := []string{DefaultHeader, "1,Ana,30,Madrid,ClientA", "2,Luis,45,Sevilla,ClientB"}

	out, found := Delete(lines, 1)
	AssertEqual(found, true)
	AssertEqual(len(out), 2)
	AssertEqual(out[0], DefaultHeader)
	AssertEqual(out[1], "2,Luis,45,Sevilla,ClientB")
}

func TestAdd_PrependsHeaderWhenEmpty(t *testing.T) {
	out := Add([]string{}, "1,Ana,30,Madrid,ClientA")
	AssertEqual(len(out), 2)
	AssertEqual(out[0], DefaultHeader)
	AssertEqual(out[1], "1,Ana,30,Madrid,ClientA")
}
