package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/palavra/internal/palavra"
)

const fieldSeparator = "\x1f"

// NoteFields are the fields of the exported note type, in order.
var NoteFields = []string{"Word", "Reading", "Meaning", "Examples", "Note", "Conjugations", "Image"}

const cardCSS = `.card { font-family: sans-serif; font-size: 20px; text-align: center; color: #1a1a2e; background: #f1faee; }
.word { font-size: 42px; font-weight: bold; }
.reading { color: #3d5a80; }
.examples, .note, .conj { text-align: left; margin: 12px auto; max-width: 560px; }
.note { font-style: italic; }
img { max-width: 320px; }`

const (
	frontTemplate = `<div class="word">{{Word}}</div>{{#Reading}}<div class="reading">{{Reading}}</div>{{/Reading}}`
	backTemplate  = `{{FrontSide}}<hr id="answer"><div>{{Meaning}}</div>{{#Image}}<div>{{Image}}</div>{{/Image}}` +
		`<div class="examples">{{Examples}}</div>{{#Conjugations}}<div class="conj">{{Conjugations}}</div>{{/Conjugations}}` +
		`<div class="note">{{Note}}</div>`
)

// ErrNoItems is returned when exporting an empty notebook.
var ErrNoItems = errors.New("nothing to export")

const schema = `
CREATE TABLE col (id integer primary key, crt integer not null, mod integer not null, scm integer not null,
	ver integer not null, dty integer not null, usn integer not null, ls integer not null, conf text not null,
	models text not null, decks text not null, dconf text not null, tags text not null);
CREATE TABLE notes (id integer primary key, guid text not null, mid integer not null, mod integer not null,
	usn integer not null, tags text not null, flds text not null, sfld integer not null, csum integer not null,
	flags integer not null, data text not null);
CREATE TABLE cards (id integer primary key, nid integer not null, did integer not null, ord integer not null,
	mod integer not null, usn integer not null, type integer not null, queue integer not null, due integer not null,
	ivl integer not null, factor integer not null, reps integer not null, lapses integer not null, left integer not null,
	odue integer not null, odid integer not null, flags integer not null, data text not null);
CREATE TABLE revlog (id integer primary key, cid integer not null, usn integer not null, ease integer not null,
	ivl integer not null, lastIvl integer not null, factor integer not null, time integer not null, type integer not null);
CREATE TABLE graves (usn integer not null, oid integer not null, type integer not null);
CREATE INDEX ix_notes_csum on notes (csum);
CREATE INDEX ix_cards_nid on cards (nid);
`

// Exporter writes notebook items as a fresh .apkg.
type Exporter struct {
	now func() time.Time
	log *slog.Logger
}

// NewExporter creates an Exporter using the wall clock for ids. A nil log
// means slog.Default().
func NewExporter(log *slog.Logger) *Exporter {
	return &Exporter{now: time.Now, log: log}
}

// Export writes items to path as a deck named deckName, one basic card per
// item. Illustrations become media files.
func Export(path, deckName string, items []palavra.SavedItem) error {
	return NewExporter(nil).Export(path, deckName, items)
}

// Export writes items to path. See the package-level Export.
func (e *Exporter) Export(path, deckName string, items []palavra.SavedItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}

	tempDir, err := os.MkdirTemp("", "palavra-export-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	log := e.log
	if log == nil {
		log = slog.Default()
	}
	now := e.now()
	ids := idsFrom(now)
	modelID, deckID := ids.next(), ids.next()

	media := make(map[string]string)
	var mediaFiles []string
	rows := make([][]string, len(items))
	for i, item := range items {
		var imgTag string
		if uri, ok := item.ImageURL.Get(); ok {
			name, data, err := decodeDataURI(uri, item.ID)
			if err != nil {
				log.Warn("illustration skipped in anki export",
					slog.String("word", item.Word),
					slog.String("error", err.Error()))
			} else {
				key := strconv.Itoa(len(mediaFiles))
				if err := os.WriteFile(filepath.Join(tempDir, key), data, 0o644); err != nil {
					return fmt.Errorf("writing media: %w", err)
				}
				media[key] = name
				mediaFiles = append(mediaFiles, key)
				imgTag = fmt.Sprintf(`<img src="%s">`, html.EscapeString(name))
			}
		}
		rows[i] = noteFields(item, imgTag)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := writeCollection(dbPath, now, ids, modelID, deckID, deckName, items, rows); err != nil {
		return err
	}

	manifest, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("marshaling media manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "media"), manifest, 0o644); err != nil {
		return fmt.Errorf("writing media manifest: %w", err)
	}

	members := append([]string{"collection.anki2", "media"}, mediaFiles...)
	return zipFiles(path, tempDir, members)
}

func writeCollection(dbPath string, now time.Time, ids *idSource, modelID, deckID int64, deckName string,
	items []palavra.SavedItem, rows [][]string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	models, decks, dconf, conf, err := collectionJSON(now, modelID, deckID, deckName)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	sec := now.Unix()
	if _, err := tx.Exec(`INSERT INTO col VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		sec, now.UnixMilli(), now.UnixMilli(), conf, models, decks, dconf); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}

	for i, item := range items {
		fields := rows[i]
		noteID, cardID := ids.next(), ids.next()
		tags := " palavra " + languageTag(item.TargetLang) + " "

		if _, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`,
			noteID, guidFor(item), modelID, sec, tags,
			strings.Join(fields, fieldSeparator), fields[0], checksum(fields[0])); err != nil {
			return fmt.Errorf("writing note %q: %w", item.Word, err)
		}
		if _, err := tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
			cardID, noteID, deckID, sec, i+1); err != nil {
			return fmt.Errorf("writing card %q: %w", item.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return nil
}

func collectionJSON(now time.Time, modelID, deckID int64, deckName string) (models, decks, dconf, conf string, err error) {
	fields := make([]Field, len(NoteFields))
	for i, name := range NoteFields {
		fields[i] = Field{Name: name, Ord: i, Font: "Arial", Size: 20}
	}

	model := map[string]any{
		"id":        modelID,
		"name":      "palavra",
		"type":      0,
		"mod":       now.Unix(),
		"usn":       -1,
		"sortf":     0,
		"did":       deckID,
		"flds":      fields,
		"tmpls":     []Template{{Name: "Card 1", Ord: 0, QFmt: frontTemplate, AFmt: backTemplate}},
		"css":       cardCSS,
		"latexPre":  `\documentclass[12pt]{article}\begin{document}`,
		"latexPost": `\end{document}`,
		"req":       []any{[]any{0, "any", []int{0, 1}}},
		"tags":      []string{},
		"vers":      []any{},
	}
	deckJSON := func(id int64, name string) map[string]any {
		return map[string]any{
			"id": id, "name": name, "desc": "", "mod": now.Unix(), "usn": -1,
			"collapsed": false, "dyn": 0, "conf": 1, "extendNew": 10, "extendRev": 50,
			"newToday": []int{0, 0}, "revToday": []int{0, 0}, "lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
		}
	}
	deckConf := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "mod": 0, "usn": 0, "maxTaken": 60, "autoplay": true, "timer": 0,
			"replayq": true, "dyn": false,
			"new":   map[string]any{"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500, "order": 1, "perDay": 20, "bury": true},
			"rev":   map[string]any{"perDay": 200, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500, "bury": true, "hardFactor": 1.2},
			"lapse": map[string]any{"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0},
		},
	}
	collConf := map[string]any{
		"activeDecks": []int64{deckID}, "curDeck": deckID, "curModel": modelID,
		"nextPos": 1, "sortType": "noteFld", "sortBackwards": false, "newSpread": 0,
	}

	parts := []any{
		map[string]any{strconv.FormatInt(modelID, 10): model},
		map[string]any{"1": deckJSON(1, "Default"), strconv.FormatInt(deckID, 10): deckJSON(deckID, deckName)},
		deckConf,
		collConf,
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			return "", "", "", "", fmt.Errorf("marshaling collection: %w", err)
		}
		out[i] = string(b)
	}
	return out[0], out[1], out[2], out[3], nil
}

// noteFields renders an item into NoteFields order.
func noteFields(item palavra.SavedItem, imgTag string) []string {
	var examples strings.Builder
	if len(item.Examples) > 0 {
		examples.WriteString("<ul>")
		for _, ex := range item.Examples {
			examples.WriteString(fmt.Sprintf("<li>%s<br><i>%s</i></li>",
				html.EscapeString(ex.Original), html.EscapeString(ex.Translated)))
		}
		examples.WriteString("</ul>")
	}

	var conj strings.Builder
	if c, ok := item.Conjugations.Get(); ok {
		conj.WriteString(fmt.Sprintf("<b>%s</b> (%s)<table>", html.EscapeString(c.Infinitive), html.EscapeString(c.TenseName)))
		for _, f := range c.Forms {
			conj.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>", html.EscapeString(f.Pronoun), html.EscapeString(f.Form)))
		}
		conj.WriteString("</table>")
	}

	return []string{
		html.EscapeString(item.Word),
		html.EscapeString(item.Reading.OrElse("")),
		html.EscapeString(item.Explanation),
		examples.String(),
		html.EscapeString(item.FriendlyNote),
		conj.String(),
		imgTag,
	}
}

// decodeDataURI decodes a base64 data URI into a media file name and bytes.
func decodeDataURI(uri, id string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("unsupported data uri")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data uri: %w", err)
	}

	ext := ".png"
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}
	return "palavra-" + id + ext, data, nil
}

func guidFor(item palavra.SavedItem) string {
	if item.ID != "" {
		return item.ID
	}
	sum := sha1.Sum([]byte(item.Word))
	return hex.EncodeToString(sum[:8])
}

// checksum is the integer of the first 8 hex digits of the sort field's SHA1.
func checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return v
}

func languageTag(name string) string {
	if l, ok := palavra.FindLanguage(name); ok {
		return l.Code
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// idSource hands out increasing millisecond-based ids.
type idSource struct {
	last int64
}

func idsFrom(t time.Time) *idSource {
	return &idSource{last: t.UnixMilli()}
}

func (s *idSource) next() int64 {
	s.last++
	return s.last
}

func zipFiles(path, dir string, members []string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range members {
		if err := addFile(zw, filepath.Join(dir, name), name); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}
	return out.Close()
}

func addFile(zw *zip.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
