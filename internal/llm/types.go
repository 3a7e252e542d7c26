package llm

// Wire types for the generateContent endpoint.

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// schema is the OpenAPI subset accepted as responseSchema.
type schema struct {
	Type       string             `json:"type"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Items      *schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Nullable   bool               `json:"nullable,omitempty"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	ResponseMimeType   string        `json:"responseMimeType,omitempty"`
	ResponseSchema     *schema       `json:"responseSchema,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
	Temperature        *float64      `json:"temperature,omitempty"`
}

type request struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type response struct {
	Candidates     []candidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}

// definitionPayload is the JSON shape requested from the text model.
type definitionPayload struct {
	Word         string `json:"word"`
	Explanation  string `json:"explanation"`
	FriendlyNote string `json:"friendlyNote"`
	Examples     []struct {
		Original   string `json:"original"`
		Translated string `json:"translated"`
	} `json:"examples"`
	Conjugations *struct {
		Infinitive string `json:"infinitive"`
		TenseName  string `json:"tenseName"`
		Forms      []struct {
			Pronoun string `json:"pronoun"`
			Form    string `json:"form"`
		} `json:"forms"`
	} `json:"conjugations"`
}

func definitionSchema() *schema {
	str := func() *schema { return &schema{Type: "STRING"} }
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"word":         str(),
			"explanation":  str(),
			"friendlyNote": str(),
			"examples": {
				Type: "ARRAY",
				Items: &schema{
					Type: "OBJECT",
					Properties: map[string]*schema{
						"original":   str(),
						"translated": str(),
					},
					Required: []string{"original", "translated"},
				},
			},
			"conjugations": {
				Type:     "OBJECT",
				Nullable: true,
				Properties: map[string]*schema{
					"infinitive": str(),
					"tenseName":  str(),
					"forms": {
						Type: "ARRAY",
						Items: &schema{
							Type: "OBJECT",
							Properties: map[string]*schema{
								"pronoun": str(),
								"form":    str(),
							},
							Required: []string{"pronoun", "form"},
						},
					},
				},
			},
		},
		Required: []string{"word", "explanation", "examples", "friendlyNote"},
	}
}
