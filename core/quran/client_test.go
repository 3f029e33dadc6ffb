package quran

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestClient(primary, fallback string) *Client {
	return &Client{
		http:        http.DefaultClient,
		baseURL:     primary,
		fallbackURL: fallback,
		logger:      nopLogger{},
	}
}

func serveJSON(data string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"code":200,"status":"OK","data":%s}`, data)
	}
}

func serveErr() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

const chaptersJSON = `[
	{"number":1,"name":"سورة الفاتحة","englishName":"Al-Faatiha","numberOfAyahs":7},
	{"number":2,"name":"سورة البقرة","englishName":"Al-Baqara","numberOfAyahs":286}
]`

func TestClientFetchChapters(t *testing.T) {
	srv := httptest.NewServer(serveJSON(chaptersJSON))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	chapters, err := c.FetchChapters(context.Background())
	if err != nil {
		t.Fatalf("FetchChapters() error = %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("len(chapters) = %d, want 2", len(chapters))
	}
	if chapters[0].NameSimple != "Al-Faatiha" || chapters[0].VersesCount != 7 {
		t.Errorf("chapters[0] = %+v", chapters[0])
	}
}

func TestClientFallsBackToSecondProvider(t *testing.T) {
	primary := httptest.NewServer(serveErr())
	defer primary.Close()
	fallback := httptest.NewServer(serveJSON(chaptersJSON))
	defer fallback.Close()

	c := newTestClient(primary.URL, fallback.URL)
	chapters, err := c.FetchChapters(context.Background())
	if err != nil {
		t.Fatalf("FetchChapters() error = %v", err)
	}
	if len(chapters) != 2 {
		t.Errorf("len(chapters) = %d, want 2", len(chapters))
	}
}

func TestClientBothProvidersDown(t *testing.T) {
	srv := httptest.NewServer(serveErr())
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	if _, err := c.FetchChapters(context.Background()); errors.Cause(err) != ErrUnavailable {
		t.Errorf("FetchChapters() error = %v, want %v", err, ErrUnavailable)
	}
}

func TestClientFetchVerses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data string
		switch r.URL.Path {
		case "/surah/1/quran-uthmani":
			data = `{"number":1,"ayahs":[
				{"number":1,"numberInSurah":1,"text":"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"},
				{"number":2,"numberInSurah":2,"text":"الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ"}
			]}`
		case "/surah/1/en.sahih":
			data = `{"number":1,"ayahs":[
				{"number":1,"numberInSurah":1,"text":"In the name of Allah..."},
				{"number":2,"numberInSurah":2,"text":"All praise is due to Allah..."}
			]}`
		default:
			// malay edition missing from this provider
			w.WriteHeader(http.StatusNotFound)
			return
		}
		serveJSON(data)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	verses, err := c.FetchVerses(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchVerses() error = %v", err)
	}
	if len(verses) != 2 {
		t.Fatalf("len(verses) = %d, want 2", len(verses))
	}
	if verses[0].VerseKey != "1:1" {
		t.Errorf("VerseKey = %q, want 1:1", verses[0].VerseKey)
	}
	if verses[0].TextUthmani == "" {
		t.Error("TextUthmani should not be empty")
	}
	if len(verses[0].Translations) != 2 {
		t.Fatalf("len(Translations) = %d, want 2", len(verses[0].Translations))
	}
	if verses[0].Translations[0].Text == "" {
		t.Error("english translation should be set")
	}
	// a missing translation edition degrades to an empty text
	if verses[0].Translations[1].Text != "" {
		t.Errorf("malay translation = %q, want empty", verses[0].Translations[1].Text)
	}
}

func TestClientFetchAudioDegrades(t *testing.T) {
	srv := httptest.NewServer(serveErr())
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	audio, err := c.FetchAudio(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("FetchAudio() error = %v", err)
	}
	if len(audio) != 0 {
		t.Errorf("FetchAudio() = %v, want empty", audio)
	}
}

func TestClientFetchRecitersFallback(t *testing.T) {
	srv := httptest.NewServer(serveErr())
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	reciters, err := c.FetchReciters(context.Background())
	if err != nil {
		t.Fatalf("FetchReciters() error = %v", err)
	}
	if len(reciters) != len(fallbackReciters) {
		t.Errorf("len(reciters) = %d, want the static list of %d", len(reciters), len(fallbackReciters))
	}
}
