package llm

import (
	"fmt"
	"strings"

	"github.com/f3rmion/palavra/internal/palavra"
)

func buildDefinitionPrompt(r palavra.DefinitionRequest) string {
	var sb strings.Builder

	sb.WriteString("You are a warm, knowledgeable language tutor.\n\n")
	sb.WriteString(fmt.Sprintf("The learner speaks %s and is learning %s.\n", r.NativeLanguage, r.TargetLanguage))
	sb.WriteString(fmt.Sprintf("They looked up: %q\n\n", r.Query))

	sb.WriteString("Return a JSON object with:\n")
	sb.WriteString(fmt.Sprintf("- word: the headword in %s (translate it if the query is in another language)\n", r.TargetLanguage))
	sb.WriteString(fmt.Sprintf("- explanation: a short, plain explanation in %s\n", r.NativeLanguage))
	sb.WriteString(fmt.Sprintf("- examples: two or three sentences in %s, each with a %s translation\n", r.TargetLanguage, r.NativeLanguage))
	sb.WriteString(fmt.Sprintf("- friendlyNote: one fun cultural or usage note, written in %s\n", r.NativeLanguage))
	sb.WriteString("- conjugations: only if the word is a verb, its present tense forms with pronouns; otherwise null\n")

	if r.Variant == palavra.VariantEuropeanPortuguese {
		sb.WriteString("\n=== VARIANT ===\n")
		sb.WriteString("Use European Portuguese as spoken in Portugal, never Brazilian Portuguese.\n")
		sb.WriteString("- Prefer Portuguese vocabulary (e.g. 'comboio' not 'trem', 'autocarro' not 'ônibus', 'pequeno-almoço' not 'café da manhã').\n")
		sb.WriteString("- Use 'tu' for informal address and include it in conjugation tables.\n")
		sb.WriteString("- Use European spelling and the 'estar a + infinitive' progressive.\n")
	}

	return sb.String()
}

func buildIllustrationPrompt(query string) string {
	return fmt.Sprintf(
		"A simple, friendly illustration that conveys the meaning of %q. "+
			"Flat colors, clear shapes, no text or letters in the image.", query)
}

func buildStoryPrompt(headwords []string, nativeLanguage string) string {
	var sb strings.Builder

	sb.WriteString("Write a short, light-hearted story (under 200 words) for a language learner.\n")
	sb.WriteString(fmt.Sprintf("Write the narrative in %s, but use each of these words in their original language:\n", nativeLanguage))
	for _, w := range headwords {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}
	sb.WriteString("\nMark every one of those words in **bold**. Output only the story.")

	return sb.String()
}
