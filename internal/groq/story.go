package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

const storySystemPrompt = "You are a creative storyteller. Generate an engaging story based on the given theme and length. The story should be concise, engaging, and suitable for a social media video."

// Story lengths accepted by GenerateStory.
const (
	LengthShort  = "Short (15s)"
	LengthMedium = "Medium (30s)"
	LengthLong   = "Long (60s)"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateStory produces a short story for the theme and target length. A
// provider failure is absorbed: the canned per-theme story is returned instead
// so the caller never has to surface an LLM error.
func (c *Client) GenerateStory(ctx context.Context, theme, length string) string {
	prompt := fmt.Sprintf(
		"Generate a %s story that would take about %s to read aloud. Make it engaging for social media.",
		strings.ToLower(theme), strings.ToLower(length))

	payload := chatRequest{
		Model: c.storyModel,
		Messages: []chatMessage{
			{Role: "system", Content: storySystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokensForLength(length),
	}

	data, err := c.postJSON(ctx, c.baseURL+"/chat/completions", payload)
	if err != nil {
		slog.Warn("story generation failed, using fallback story", "theme", theme, "err", err)
		return FallbackStory(theme, length)
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil || len(resp.Choices) == 0 {
		slog.Warn("story response unusable, using fallback story", "theme", theme, "err", err)
		return FallbackStory(theme, length)
	}

	story := strings.TrimSpace(resp.Choices[0].Message.Content)
	if story == "" {
		return FallbackStory(theme, length)
	}
	slog.Info("story generated", "theme", theme, "chars", len(story))
	return story
}

func maxTokensForLength(length string) int {
	switch strings.ToLower(length) {
	case strings.ToLower(LengthShort):
		return 100
	case strings.ToLower(LengthMedium):
		return 200
	case strings.ToLower(LengthLong):
		return 400
	default:
		return 200
	}
}

// Canned stories served when the LLM is unreachable.
var fallbackStories = map[string]string{
	"funny": "I couldn't believe what happened at the grocery store today. There I was, minding my own business in the produce section, when suddenly a banana peel appeared out of nowhere. Classic setup, right? But instead of slipping, I watched as the store manager—a serious guy who never smiles—rounded the corner and went down like a sack of potatoes. The best part? He was carrying a cake for an employee celebration. Let's just say everyone got an equal share of frosting that day, including the ceiling.",

	"dramatic": "The letter arrived on Tuesday. Plain envelope, no return address. My hands trembled as I opened it, knowing what it might contain. Three years I'd been running, changing names, cities, jobs. The single sheet of paper inside had just five words: 'I know where you are.' I packed my bags that night, left my apartment keys with the neighbor. Some secrets are worth running from forever.",

	"inspirational": "Everyone said the mountain couldn't be climbed in winter. Too steep, too icy, too dangerous. But Sarah had never been good at listening to 'impossible.' After losing her leg in the accident, doctors said she'd never walk unaided again. Now, as she planted her flag at the summit, the wind whipping tears from her eyes, she took a photo to send to those same doctors. Sometimes the only limits that exist are the ones we choose to believe in.",

	"scary": "The knocking started at exactly 3:17 AM. Three sharp raps on my bedroom window—the window fourteen stories up, with no balcony. I froze under my covers, telling myself it was the wind, a bird, anything logical. Then came the whisper, a child's voice: 'Please let me in. It's cold out here.' I haven't opened my curtains in three days. The knocking continues every night, but now it's at my bedroom door.",

	"relationship": "We met in the comments section of a recipe blog. I said the cookies needed more vanilla; they argued for almond extract instead. Somehow that trivial disagreement turned into emails, then calls, then meeting halfway between our cities at a café where we baked both versions together. Sometimes love isn't about grand gestures or perfect compatibility—it's about finding someone who makes even the smallest disagreements feel like adventures worth having.",
}

// FallbackStory returns the canned story for a theme, adjusted roughly for the
// requested length. Unknown themes get the funny story.
func FallbackStory(theme, length string) string {
	story, ok := fallbackStories[strings.ToLower(theme)]
	if !ok {
		story = fallbackStories["funny"]
	}

	if strings.Contains(length, "Short") {
		if i := strings.IndexByte(story, '.'); i >= 0 {
			return story[:i+1]
		}
	} else if strings.Contains(length, "Long") && len(story) < 300 {
		return story + " " + story
	}
	return story
}
