package ai

import (
	"fmt"
	"strings"

	"textbook-rag-platform/models"
)

// promptSet bundles every language-dependent string the synthesizer needs.
// The map below must have an entry for each models.Language; promptsFor
// falls back to English for any code outside the map.
type promptSet struct {
	System        string
	FallbackMsg   string
	ProviderError string
	Overloaded    string
	userTemplate  func(context, question string) string
}

var prompts = map[models.Language]promptSet{
	models.LanguageEnglish: {
		System: `You are an AI tutor helping students learn Physical AI and Humanoid Robotics from a textbook.

Instructions:
1. Answer ONLY using the provided textbook content
2. If the answer is not in the context, state that the topic is not covered in this textbook
3. Provide clear, concise answers
4. Include relevant code examples if appropriate
5. Cite the specific sections you're referencing
6. Language: English`,
		FallbackMsg:   "I couldn't find relevant information in the textbook to answer your question. Try rephrasing or browse the chapters directly.",
		ProviderError: "Something went wrong while generating the answer. Please try again in a moment.",
		Overloaded:    "I'm experiencing high demand right now. Please try again in a moment.",
		userTemplate: func(context, question string) string {
			return fmt.Sprintf(`Using the following textbook content, answer the question:

**Textbook Content:**
%s

**Question:**
%s

Answer:`, context, question)
		},
	},
	models.LanguageUrdu: {
		System: `آپ ایک AI معلم ہیں جو فزیکل AI اور انسان نما روبوٹکس کے بارے میں ایک نصابی کتاب کے مبنی پر سوالات کے جواب دیتے ہیں۔

ہدایات:
1. دی گئی متن سے جواب دیں
2. اگر متن میں جواب نہیں ہے، تو کہیں کہ یہ کتاب میں شامل نہیں ہے
3. جواب واضح اور مختصر رکھیں
4. مناسب کوڈ مثالیں شامل کریں اگر ممکن ہو
5. زبان: اردو`,
		FallbackMsg:   "میں textbook میں آپ کے سوال کا جواب دینے کے لیے متعلقہ معلومات نہیں مل سکا۔ اپنے سوال کو دوبارہ لکھنے کی کوشش کریں یا براہ راست ابواب دیکھیں۔",
		ProviderError: "جواب تیار کرتے ہوئے ایک خرابی پیش آئی۔ براہ کرم تھوڑی دیر بعد دوبارہ کوشش کریں۔",
		Overloaded:    "اس وقت بہت زیادہ درخواستیں موصول ہو رہی ہیں۔ براہ کرم تھوڑی دیر بعد دوبارہ کوشش کریں۔",
		userTemplate: func(context, question string) string {
			return fmt.Sprintf(`درج ذیل متن کا استعمال کرتے ہوئے اس سوال کا جواب دیں:

**متن:**
%s

**سوال:**
%s

جواب:`, context, question)
		},
	},
}

func promptsFor(language models.Language) promptSet {
	if ps, ok := prompts[language]; ok {
		return ps
	}
	return prompts[models.LanguageEnglish]
}

// FallbackMessage is the out-of-scope answer shown when retrieval finds
// nothing above the similarity threshold.
func FallbackMessage(language models.Language) string {
	return promptsFor(language).FallbackMsg
}

// ProviderErrorMessage is the inline answer used when generation fails;
// the request itself still succeeds with a well-formed response.
func ProviderErrorMessage(language models.Language) string {
	return promptsFor(language).ProviderError
}

// contextDelimiter visibly separates chunks inside the prompt so the model
// does not blend section boundaries.
const contextDelimiter = "\n\n---\n\n"

// BuildContext concatenates retrieved chunks in retrieval order into the
// labeled context block fed to the generation model.
func BuildContext(chunks []models.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		title := chunk.SectionTitle
		if title == "" {
			title = "Unknown Section"
		}
		parts[i] = fmt.Sprintf("[Section %d: %s]\n%s", i+1, title, chunk.Content)
	}
	return strings.Join(parts, contextDelimiter)
}

func buildUserPrompt(language models.Language, question string, chunks []models.RetrievedChunk) string {
	return promptsFor(language).userTemplate(BuildContext(chunks), question)
}
