package quran

import "encoding/json"

// Client-facing shapes rendered by the reader UI.

type Chapter struct {
	ID          int    `json:"id"`
	NameArabic  string `json:"name_arabic"`
	NameSimple  string `json:"name_simple"`
	VersesCount int    `json:"verses_count"`
}

type Translation struct {
	ID           int    `json:"id"`
	Text         string `json:"text"`
	ResourceName string `json:"resource_name"`
	LanguageName string `json:"language_name"`
}

type Verse struct {
	ID           int           `json:"id"`
	VerseKey     string        `json:"verse_key"` // e.g. "3:1"
	TextUthmani  string        `json:"text_uthmani"`
	Translations []Translation `json:"translations"`
}

type VerseAudio struct {
	VerseKey string `json:"verse_key"`
	URL      string `json:"url,omitempty"`
}

type Reciter struct {
	ID          int    `json:"id"`
	ReciterName string `json:"reciter_name"`
	Style       string `json:"style,omitempty"`
}

// Upstream envelope and payloads. Both providers speak the same
// {code, status, data} scheme.

type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type apiSurah struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	EnglishName   string `json:"englishName"`
	NumberOfAyahs int    `json:"numberOfAyahs"`
}

type apiAyah struct {
	Number        int    `json:"number"`
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah"`
	Audio         string `json:"audio,omitempty"`
}

type apiSurahData struct {
	Number        int       `json:"number"`
	Name          string    `json:"name"`
	EnglishName   string    `json:"englishName"`
	NumberOfAyahs int       `json:"numberOfAyahs"`
	Ayahs         []apiAyah `json:"ayahs"`
}

type apiEdition struct {
	Identifier  string `json:"identifier"`
	Language    string `json:"language"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
	Format      string `json:"format"`
	Type        string `json:"type"`
}
