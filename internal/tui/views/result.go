package views

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/f3rmion/palavra/internal/tui/blockart"
)

// renderResult draws a dictionary result. The illustration is drawn when
// withImage is set and the result carries one.
func renderResult(d *Deps, r palavra.DictionaryResult, width int, withImage bool) string {
	var b strings.Builder

	head := headwordStyle.Render(r.Word)
	if reading, ok := r.Reading.Get(); ok {
		head += "  " + readingStyle.Render(reading)
	}
	b.WriteString(head)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s → %s", r.SourceLang, r.TargetLang)))
	b.WriteString("\n\n")

	if img, ok := r.ImageURL.Get(); ok && withImage {
		cols := min(max(width/2, 16), 48)
		art := d.Art.Get(fmt.Sprintf("img:%s:%d", r.Word, cols), func() string {
			out, err := blockart.Image(img, cols, cols/2)
			if err != nil {
				d.Log.Debug("illustration not renderable", "word", r.Word, "error", err)
				return ""
			}
			return out
		})
		if art != "" {
			b.WriteString(art)
			b.WriteString("\n\n")
		}
	}

	b.WriteString(valueStyle.Render(wrap(r.Explanation, width-4)))
	b.WriteString("\n")

	if len(r.Examples) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Examples"))
		b.WriteString("\n")
		for _, ex := range r.Examples {
			b.WriteString(valueStyle.Render(wrap("• "+ex.Original, width-4)))
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(wrap("  "+ex.Translated, width-4)))
			b.WriteString("\n")
		}
	}

	if conj, ok := r.Conjugations.Get(); ok {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%s · %s", conj.Infinitive, conj.TenseName)))
		b.WriteString("\n")
		b.WriteString(conjugationTable(conj))
	}

	if r.FriendlyNote != "" {
		b.WriteString(noteStyle.Render(wrap("💡 "+r.FriendlyNote, min(width-8, 72))))
		b.WriteString("\n")
	}

	return b.String()
}

func conjugationTable(c palavra.Conjugations) string {
	w := 0
	for _, f := range c.Forms {
		w = max(w, runewidth.StringWidth(f.Pronoun))
	}

	var b strings.Builder
	for _, f := range c.Forms {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(runewidth.FillRight(f.Pronoun, w)))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(f.Form))
		b.WriteString("\n")
	}
	return b.String()
}

// plainResult is the clipboard form of a result.
func plainResult(r palavra.DictionaryResult) string {
	var b strings.Builder
	b.WriteString(r.Word)
	if reading, ok := r.Reading.Get(); ok {
		b.WriteString(" (" + reading + ")")
	}
	b.WriteString("\n\n" + r.Explanation + "\n")
	for _, ex := range r.Examples {
		b.WriteString("\n- " + ex.Original + "\n  " + ex.Translated)
	}
	if c, ok := r.Conjugations.Get(); ok {
		b.WriteString("\n\n" + c.TenseName + ":\n")
		for _, f := range c.Forms {
			b.WriteString(f.Pronoun + " " + f.Form + "\n")
		}
	}
	if r.FriendlyNote != "" {
		b.WriteString("\n\n" + r.FriendlyNote)
	}
	return strings.TrimSpace(b.String())
}
