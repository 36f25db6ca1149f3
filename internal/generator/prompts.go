package generator

import (
	"fmt"
	"strings"

	"letterly/internal/core"
)

// Prompt text is data. Block schemas here must stay in sync with what the
// frontend block renderer understands.

func buildExpandTopicPrompt(topic string) string {
	return fmt.Sprintf(`You are a professional research strategist.
Generate 3 search queries to collect deeper, multi-angle information on the user's topic '%s'.

The queries must cover these three angles:
1. Latest technical trends and changes
2. Market impact and business insight
3. Concrete applications, data and statistics

Output ONLY a JSON list of strings.
Example: ["query 1", "query 2", "query 3"]`, topic)
}

func buildRefineContextPrompt(topic string, rawContext string) string {
	return fmt.Sprintf(`You are an information analysis expert. Topic: '%s'
Analyze the article information provided below (Raw Context) and:
1. Find the core common theme running through all sources.
2. Summarize around the most strongly related information; drop anything off-topic or contradictory.
3. Output a refined knowledge base, as plain text, ready for newsletter writing.

[Raw Context]
%s`, topic, rawContext)
}

func toneInstruction(tone string) string {
	switch tone {
	case "friendly":
		return "Tone: Friendly, approachable, and warm."
	case "witty":
		return "Tone: Witty, humorous, and energetic."
	default:
		return "Tone: Professional, authoritative, and concise."
	}
}

func buildNewsletterPrompt(topic, tone, today, refinedContext string, articles []core.Article) string {
	var sources strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&sources, "--- Source %d ---\nTitle: %s\nURL: %s\nContent: %s\n\n", i+1, a.Title, a.URL, a.Content)
	}

	return fmt.Sprintf(`You are a senior newsletter editor with an insightful, emotionally resonant style.
Your goal is to publish a newsletter about '%s' that genuinely moves the reader.

%s
Today's date: %s

[Required writing rules]
1. **1:1 article matching:** Convert each article in [Sources], in order, into one block (main_story or deep_dive).
2. **Link integrity:** The link field of each block must contain ONLY the real URL of its Source. Never invent or alter URLs.
3. **Bridges:** Open each block's body with a soft transition connecting it to the previous one.
4. **Overall theme:** Keep the core insight from the refined context below as the through-line of the whole newsletter.

[Sources]
%s
[Refined Context]
%s

[Output format]
Output ONLY a valid JSON object, no extra text.
The newsletter is composed of blocks. Include at least 10 blocks.

Available block types and schemas:

1. header: opens the newsletter
{"type": "header", "content": {"title": "...", "date": "%s", "intro": "2-3 sentence greeting"}}

2. main_story: the most important news, image required
{"type": "main_story", "content": {"title": "...", "image_url": "related image URL from context or null", "body": "4-5+ paragraphs, markdown allowed", "link": "source URL", "link_text": "Read the full story"}}

3. deep_dive: in-depth analysis of one theme
{"type": "deep_dive", "content": {"title": "Deep dive: ...", "body": "long-form expert analysis"}}

4. quick_hits: short news list (may repeat)
{"type": "quick_hits", "content": {"title": "...", "items": [{"text": "one-line summary", "link": "URL"}]}}

5. tool_spotlight: a relevant tool or product
{"type": "tool_spotlight", "content": {"name": "...", "description": "...", "link": "URL"}}

6. quote
{"type": "quote", "content": {"text": "...", "author": "name/title"}}

7. stat_box: highlight a key number
{"type": "stat_box", "content": {"value": "85%%", "label": "...", "description": "..."}}

8. insight: editor's closing thought
{"type": "insight", "content": {"text": "a question or thought to leave the reader with"}}

Full JSON structure:
{"title": "management title for this newsletter", "blocks": [ ...blocks in any sensible order... ]}`,
		topic, toneInstruction(tone), today, sources.String(), refinedContext, today)
}
