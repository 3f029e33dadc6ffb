package quran

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core"
)

// Editions served by both providers.
const (
	editionUthmani = "quran-uthmani"
	editionEnglish = "en.sahih"   // Sahih International
	editionMalay   = "ms.basmeih" // Basmeih
)

var (
	ErrUnavailable = errors.New("quran content is unavailable")

	// audioEditions maps the UI's reciter ids to audio editions.
	audioEditions = map[int]string{
		1: "ar.abdulbasitmurattal",
		2: "ar.abdulbasitmurattal",
		3: "ar.abdurrahmaansudais",
		7: "ar.alafasy",
		9: "ar.minshawi",
	}
	defaultAudioEdition = "ar.abdulbasitmurattal"

	// fallbackReciters is served when both providers fail to list editions.
	fallbackReciters = []Reciter{
		{ID: 1, ReciterName: "Abdul Basit Abdul Samad (Mujawwad)", Style: "Mujawwad"},
		{ID: 2, ReciterName: "Abdul Basit Abdul Samad (Murattal)", Style: "Murattal"},
		{ID: 3, ReciterName: "Abdur-Rahman as-Sudais"},
		{ID: 7, ReciterName: "Mishary Rashid al-Afasy"},
		{ID: 9, ReciterName: "Mohamed Siddiq al-Minshawi", Style: "Murattal"},
	}
)

type ClientInterface interface {
	FetchChapters(ctx context.Context) ([]Chapter, error)
	FetchVerses(ctx context.Context, chapterID int) ([]Verse, error)
	FetchAudio(ctx context.Context, reciterID, chapterID int) ([]VerseAudio, error)
	FetchReciters(ctx context.Context) ([]Reciter, error)
}

// Client fetches Quran content from a primary provider with fallback to a
// secondary one on any non-OK response or transport error. It holds no cache;
// every call hits the network.
type Client struct {
	http        *http.Client
	baseURL     string
	fallbackURL string
	logger      core.Logger
}

var _ ClientInterface = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		http:        &http.Client{Timeout: conf.Quran.Timeout},
		baseURL:     conf.Quran.BaseURL,
		fallbackURL: conf.Quran.FallbackBaseURL,
		logger:      logger,
	}
}

func (c *Client) FetchChapters(ctx context.Context) ([]Chapter, error) {
	var surahs []apiSurah
	if err := c.get(ctx, "/surah", &surahs); err != nil {
		return nil, err
	}

	chapters := make([]Chapter, 0, len(surahs))
	for _, s := range surahs {
		chapters = append(chapters, Chapter{
			ID:          s.Number,
			NameArabic:  s.Name,
			NameSimple:  s.EnglishName,
			VersesCount: s.NumberOfAyahs,
		})
	}
	return chapters, nil
}

// FetchVerses merges the Arabic text with the English and Malay translations
// per ayah. A missing translation edition yields empty translation texts
// rather than an error; a missing Arabic edition is fatal.
func (c *Client) FetchVerses(ctx context.Context, chapterID int) ([]Verse, error) {
	var arabic apiSurahData
	if err := c.get(ctx, fmt.Sprintf("/surah/%d/%s", chapterID, editionUthmani), &arabic); err != nil {
		return nil, err
	}

	var english, malay apiSurahData
	if err := c.get(ctx, fmt.Sprintf("/surah/%d/%s", chapterID, editionEnglish), &english); err != nil {
		c.logger.Warn(fmt.Sprintf("fetching english translation for chapter %d: %v", chapterID, err))
	}
	if err := c.get(ctx, fmt.Sprintf("/surah/%d/%s", chapterID, editionMalay), &malay); err != nil {
		c.logger.Warn(fmt.Sprintf("fetching malay translation for chapter %d: %v", chapterID, err))
	}

	verses := make([]Verse, 0, len(arabic.Ayahs))
	for i, ayah := range arabic.Ayahs {
		var englishText, malayText string
		if i < len(english.Ayahs) {
			englishText = english.Ayahs[i].Text
		}
		if i < len(malay.Ayahs) {
			malayText = malay.Ayahs[i].Text
		}

		verses = append(verses, Verse{
			ID:          ayah.NumberInSurah,
			VerseKey:    fmt.Sprintf("%d:%d", chapterID, ayah.NumberInSurah),
			TextUthmani: SanitizeArabic(ayah.Text),
			Translations: []Translation{
				{ID: 20, Text: englishText, ResourceName: "Sahih International", LanguageName: "English"},
				{ID: 85, Text: malayText, ResourceName: "Basmeih", LanguageName: "Malay"},
			},
		})
	}
	return verses, nil
}

// FetchAudio returns per-ayah recitation audio URLs for a chapter. Missing
// audio degrades to an empty list, never an error.
func (c *Client) FetchAudio(ctx context.Context, reciterID, chapterID int) ([]VerseAudio, error) {
	edition, ok := audioEditions[reciterID]
	if !ok {
		edition = defaultAudioEdition
	}

	var data apiSurahData
	if err := c.get(ctx, fmt.Sprintf("/surah/%d/%s", chapterID, edition), &data); err != nil {
		c.logger.Warn(fmt.Sprintf("fetching audio for reciter %d, chapter %d: %v", reciterID, chapterID, err))
		return []VerseAudio{}, nil
	}

	audio := make([]VerseAudio, 0, len(data.Ayahs))
	for _, ayah := range data.Ayahs {
		audio = append(audio, VerseAudio{
			VerseKey: fmt.Sprintf("%d:%d", chapterID, ayah.NumberInSurah),
			URL:      ayah.Audio,
		})
	}
	return audio, nil
}

// FetchReciters lists the available Arabic audio editions, falling back to a
// static reciter list when both providers fail.
func (c *Client) FetchReciters(ctx context.Context) ([]Reciter, error) {
	var editions []apiEdition
	if err := c.get(ctx, "/edition?format=audio&language=ar", &editions); err != nil {
		c.logger.Warn(fmt.Sprintf("fetching reciters: %v", err))
		return fallbackReciters, nil
	}

	reciters := make([]Reciter, 0, len(editions))
	for i, e := range editions {
		reciters = append(reciters, Reciter{
			ID:          i + 1,
			ReciterName: e.EnglishName,
			Style:       e.Type,
		})
	}
	return reciters, nil
}

// get fetches path from the primary provider, falling back to the secondary
// on any failure, and unmarshals the envelope's data into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	data, err := c.fetch(ctx, c.baseURL, path)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("primary quran provider failed for %s, falling back: %v", path, err))
		if data, err = c.fetch(ctx, c.fallbackURL, path); err != nil {
			return errors.Wrap(ErrUnavailable, err.Error())
		}
	}
	if err = json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "unmarshaling %s data", path)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, base, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%s%s: http %d", base, path, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading body")
	}

	var env envelope
	if err = json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "unmarshaling envelope")
	}
	return env.Data, nil
}
