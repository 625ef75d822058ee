package news

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/trace"
	"symphony-copilot/internal/types"
)

const analyzerSystemPrompt = "You are a financial analyst expert at analyzing news sentiment for investment decisions. Respond ONLY with valid JSON."

// SentimentAnalyzer scores articles through the assistant model.
type SentimentAnalyzer struct {
	assistant interfaces.Assistant
}

// articleSentiment is the per-article score before aggregation.
type articleSentiment struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// NewSentimentAnalyzer creates a new sentiment analyzer
func NewSentimentAnalyzer(assistant interfaces.Assistant) *SentimentAnalyzer {
	return &SentimentAnalyzer{assistant: assistant}
}

// AnalyzeArticle analyzes sentiment of a single article
func (a *SentimentAnalyzer) AnalyzeArticle(ctx context.Context, article types.NewsArticle) (articleSentiment, error) {
	ctx, span := trace.StartSpan(ctx, "analyze-article-sentiment")
	defer span.End()

	resp, err := a.assistant.Complete(ctx, types.CompletionRequest{
		System: analyzerSystemPrompt,
		Messages: []types.Message{
			{Role: "user", Content: buildArticleAnalysisPrompt(article)},
		},
		MaxTokens:   500,
		Temperature: 0.1,
	})
	if err != nil {
		return articleSentiment{}, err
	}

	var sentiment articleSentiment
	text := strings.TrimSpace(resp.Text)
	if err := json.Unmarshal([]byte(extractJSONObject(text)), &sentiment); err != nil {
		return articleSentiment{}, fmt.Errorf("invalid JSON sentiment response: %w", err)
	}
	sentiment.Sentiment = strings.ToUpper(sentiment.Sentiment)

	return sentiment, nil
}

// AnalyzeMultipleArticles analyzes sentiment from multiple articles and aggregates
func (a *SentimentAnalyzer) AnalyzeMultipleArticles(ctx context.Context, symbol string, articles []types.NewsArticle) (types.NewsSentiment, error) {
	logger.Info(ctx, "Analyzing sentiment for multiple articles", "symbol", symbol, "count", len(articles))

	if len(articles) == 0 {
		return types.NewsSentiment{
			Symbol:           symbol,
			OverallSentiment: "NEUTRAL",
			Summary:          "No articles found for analysis",
			Timestamp:        time.Now().Unix(),
		}, nil
	}

	sentiments := []articleSentiment{}
	for i, article := range articles {
		sentiment, err := a.AnalyzeArticle(ctx, article)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to analyze article", err, "article", article.Title)
			continue
		}
		sentiments = append(sentiments, sentiment)

		// Rate limiting between model calls
		if i < len(articles)-1 {
			time.Sleep(1 * time.Second)
		}
	}

	aggregated := aggregateSentiments(symbol, sentiments)

	logger.Info(ctx, "Sentiment analysis completed", "symbol", symbol,
		"overall", aggregated.OverallSentiment, "score", aggregated.OverallScore)

	return aggregated, nil
}

// aggregateSentiments combines multiple article sentiments into overall sentiment
func aggregateSentiments(symbol string, sentiments []articleSentiment) types.NewsSentiment {
	if len(sentiments) == 0 {
		return types.NewsSentiment{
			Symbol:           symbol,
			OverallSentiment: "NEUTRAL",
			Timestamp:        time.Now().Unix(),
		}
	}

	totalScore := 0.0
	counts := map[string]int{
		"POSITIVE": 0,
		"NEGATIVE": 0,
		"NEUTRAL":  0,
	}

	for _, s := range sentiments {
		totalScore += s.Score
		counts[s.Sentiment]++
	}

	avgScore := totalScore / float64(len(sentiments))

	overall := "NEUTRAL"
	if counts["POSITIVE"] > counts["NEGATIVE"]*2 {
		overall = "POSITIVE"
	} else if counts["NEGATIVE"] > counts["POSITIVE"]*2 {
		overall = "NEGATIVE"
	} else if counts["POSITIVE"] > 0 && counts["NEGATIVE"] > 0 {
		overall = "MIXED"
	}

	summary := fmt.Sprintf("Analyzed %d articles. Sentiment breakdown: %d positive, %d negative, %d neutral.",
		len(sentiments), counts["POSITIVE"], counts["NEGATIVE"], counts["NEUTRAL"])

	return types.NewsSentiment{
		Symbol:           symbol,
		OverallSentiment: overall,
		OverallScore:     avgScore,
		Confidence:       calculateConfidence(len(sentiments), counts),
		Summary:          summary,
		ArticleCount:     len(sentiments),
		Timestamp:        time.Now().Unix(),
	}
}

// calculateConfidence determines confidence level based on data quality
func calculateConfidence(articleCount int, counts map[string]int) float64 {
	confidence := 0.0
	switch {
	case articleCount >= 10:
		confidence = 0.9
	case articleCount >= 5:
		confidence = 0.7
	case articleCount >= 3:
		confidence = 0.5
	default:
		confidence = 0.3
	}

	// Reduce confidence if sentiments are very mixed
	total := float64(counts["POSITIVE"] + counts["NEGATIVE"] + counts["NEUTRAL"])
	if total > 0 {
		maxCount := float64(max3(counts["POSITIVE"], counts["NEGATIVE"], counts["NEUTRAL"]))
		confidence *= maxCount / total
	}

	return confidence
}

// buildArticleAnalysisPrompt creates the prompt for analyzing a single article
func buildArticleAnalysisPrompt(article types.NewsArticle) string {
	schema := `{
  "sentiment": "POSITIVE|NEGATIVE|NEUTRAL",
  "score": -1.0 to 1.0 (float),
  "reasoning": "brief explanation"
}`

	content := article.Content
	if len(content) > 2000 {
		content = content[:2000] + "..."
	}

	return fmt.Sprintf(`Analyze the sentiment of this news article about %s stock for investment purposes.

Article Title: %s
Source: %s
Content: %s

Evaluate:
1. Overall sentiment (POSITIVE, NEGATIVE, or NEUTRAL)
2. Sentiment score from -1.0 (very negative) to 1.0 (very positive)

Respond ONLY with valid JSON matching this schema:
%s`, article.Symbol, article.Title, article.Source, content, schema)
}

// extractJSONObject trims markdown fences and surrounding prose from a
// model response, keeping the outermost JSON object.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

func max3(a, b, c int) int {
	if a > b && a > c {
		return a
	}
	if b > c {
		return b
	}
	return c
}
