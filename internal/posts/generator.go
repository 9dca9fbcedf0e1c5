// Package posts composes the generation prompt and carves the
// backend's single response into the three platform posts.
package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/victormacedov/social-media-agent/internal/logger"
)

// promptTemplate instructs the backend to emit three clearly delimited
// sections in the exact marker format Segment expects. The transcript
// is interpolated once, at the end.
const promptTemplate = `You are a digital marketing and copywriting specialist focused on
crafting content tuned to each social network. From the text below (the
transcript of a YouTube video), write optimized posts for each network,
all in Brazilian Portuguese:

**LinkedIn Post**
- Professional and inspiring.
- Short, easy-to-read paragraphs.
- Motivational or educational tone, reinforcing authority on the topic.
- Up to 3 relevant hashtags, no more.
- No emojis or informal language.

**Instagram Post**
- Relaxed and engaging.
- Use strategic emojis to reinforce emotion or context.
- Short, direct sentences with storytelling or curiosity hooks.
- Include 5 to 10 relevant hashtags for reach.
- Creative calls to action such as questions or comment prompts.

**Twitter Post**
- Direct, punchy and concise (280 characters at most).
- A clear, catchy message that drives immediate engagement.
- Up to 3 strategic hashtags.
- Abbreviations or informal language are fine if the message stays clear.

Original text:
%s`

// TextGenerator is the slice of the generation client this package needs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	backend TextGenerator
	log     *logrus.Entry
}

func NewGenerator(backend TextGenerator) *Generator {
	return &Generator{
		backend: backend,
		log:     logger.Component("posts"),
	}
}

// GeneratePosts asks the backend for the three posts and segments the
// response. Backend failures propagate; a response missing sections
// does not.
func (g *Generator) GeneratePosts(ctx context.Context, transcript string) (Bundle, error) {
	prompt := strings.TrimSpace(fmt.Sprintf(promptTemplate, transcript))

	raw, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		return Bundle{}, err
	}

	bundle := Segment(raw)
	g.log.WithFields(logrus.Fields{
		"linkedin_len":  len(bundle.LinkedIn),
		"instagram_len": len(bundle.Instagram),
		"twitter_len":   len(bundle.Twitter),
	}).Debug("response segmented")
	return bundle, nil
}
