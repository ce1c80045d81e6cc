// Package partsagent implements the parts lookup workflow: a small state
// machine that picks a catalog category for a free text part description,
// fetches the articles in it, matches the described part against them and
// resolves OEM cross references for the match. Invalid category picks are
// retried with the rejection fed back into the conversation.
package partsagent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/pkg/catalog"
	"ai-autoparts-be/pkg/llm"
	"ai-autoparts-be/pkg/prompts"
	"ai-autoparts-be/pkg/utils"
)

// Catalog is the slice of the parts catalog API the workflow touches.
type Catalog interface {
	ListArticles(ctx context.Context, typeID, vehicleID int, categoryID string, langID int) ([]catalog.Article, error)
	ArticleDetails(ctx context.Context, typeID, articleID, langID, countryFilterID int) (*catalog.ArticleDetails, error)
}

type Agent struct {
	llm     llm.Provider
	catalog Catalog
	log     logger.ILogger
}

func NewAgent(provider llm.Provider, cat Catalog, log logger.ILogger) *Agent {
	return &Agent{
		llm:     provider,
		catalog: cat,
		log:     log,
	}
}

// matchAnswerMaxTokens caps the part matching completion; the expected answer
// is one part name inside a tag.
const matchAnswerMaxTokens = 200

// workflow steps
type step int

const (
	stepInferCategory step = iota
	stepGetPartsList
	stepMatchPart
	stepGetPartDetails
	stepEnd
)

// Run executes one lookup to completion. Workflow level failures surface in
// the Outcome status rather than as an error; the error return is reserved
// for invalid input.
func (a *Agent) Run(ctx context.Context, in Input) (*Outcome, error) {
	if strings.TrimSpace(in.PartDescription) == "" {
		return nil, errors.New("part description is required")
	}
	if in.VehicleID == 0 {
		return nil, errors.New("vehicle id is required")
	}
	if len(in.Categories) == 0 {
		return nil, errors.New("category tree is required")
	}
	if in.CountryFilterID == 0 {
		in.CountryFilterID = catalog.DefaultCountryFilterID
	}

	s := &state{
		partDescription: in.PartDescription,
		categories:      in.Categories.Markdown(),
		vehicleID:       in.VehicleID,
		countryFilterID: in.CountryFilterID,
	}
	leaves := in.Categories.Leaves()

	current := stepInferCategory
	for current != stepEnd {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		switch current {
		case stepInferCategory:
			a.inferCategory(ctx, s, leaves)
			current = stepGetPartsList
		case stepGetPartsList:
			a.getPartsList(ctx, s)
			current = a.route(s)
		case stepMatchPart:
			a.matchPart(ctx, s)
			current = stepGetPartDetails
		case stepGetPartDetails:
			a.getPartDetails(ctx, s)
			current = stepEnd
		}
	}

	return a.outcome(s), nil
}

// route decides where to go after the parts list step: retry the category
// pick on a retryable failure, give up past the retry cap, otherwise match.
func (a *Agent) route(s *state) step {
	if s.errTag == errAPIUnavailable || s.errTag == errAPIError {
		if s.retryCount >= MaxRetries {
			a.log.Warn("partsagent", "retry limit reached, giving up", map[string]interface{}{
				"retryCount":      s.retryCount,
				"partDescription": s.partDescription,
			})
			return stepEnd
		}
		return stepInferCategory
	}
	return stepMatchPart
}

// inferCategory asks the model to pick the catalog subcategory most likely to
// contain the described part. The running conversation is replayed so retry
// turns see which picks were already rejected.
func (a *Agent) inferCategory(ctx context.Context, s *state, leaves map[string]catalog.Leaf) {
	userPrompt, err := prompts.Render(prompts.InferCategory, map[string]string{
		"part_description": s.partDescription,
		"categories":       s.categories,
	})
	if err != nil {
		s.errTag = errAPIError
		return
	}

	systemPrompt, err := prompts.Get(prompts.System)
	if err != nil {
		s.errTag = errAPIError
		return
	}

	messages := make([]llm.Message, 0, len(s.chatHistory)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, s.chatHistory...)
	messages = append(messages, llm.Message{Role: "user", Content: userPrompt})

	response, err := a.llm.Chat(ctx, messages)
	if err != nil {
		a.log.Error("partsagent", "category inference call failed", map[string]interface{}{"error": err.Error()})
		s.categoryID = ""
		s.errTag = ""
		return
	}

	s.chatHistory = append(s.chatHistory,
		llm.Message{Role: "user", Content: userPrompt},
		llm.Message{Role: "assistant", Content: response},
	)

	categoryID, err := utils.ParseXMLTag(response, "subcategory_id")
	if err != nil {
		a.log.Warn("partsagent", "no subcategory id in model answer", map[string]interface{}{"response": response})
		s.categoryID = ""
		s.errTag = ""
		return
	}
	s.categoryID = strings.TrimSpace(categoryID)

	if name, err := utils.ParseXMLTag(response, "category"); err == nil {
		s.categoryName = strings.TrimSpace(name)
	}

	// ids not present in the tree are treated like an empty category so the
	// retry path can nudge the model toward a valid one
	if _, ok := leaves[s.categoryID]; !ok {
		a.log.Warn("partsagent", "model picked unknown subcategory", map[string]interface{}{"categoryId": s.categoryID})
	}
	s.errTag = ""
}

// getPartsList fetches the articles of the picked category. Empty categories
// and transport failures both queue an invalid-category nudge and bump the
// retry counter.
func (a *Agent) getPartsList(ctx context.Context, s *state) {
	if s.categoryID == "" {
		a.recordListFailure(s, errAPIError)
		return
	}

	articles, err := a.catalog.ListArticles(ctx, catalog.TypePassengerCar, s.vehicleID, s.categoryID, catalog.LangEnglish)
	if err != nil {
		a.log.Warn("partsagent", "article list failed", map[string]interface{}{
			"categoryId": s.categoryID,
			"error":      err.Error(),
		})
		a.recordListFailure(s, errAPIError)
		return
	}
	if len(articles) == 0 {
		a.recordListFailure(s, errAPIUnavailable)
		return
	}

	s.partsList = articles
	s.errTag = ""
}

func (a *Agent) recordListFailure(s *state, tag string) {
	if nudge, err := prompts.Get(prompts.InvalidCategory); err == nil {
		s.chatHistory = append(s.chatHistory, llm.Message{Role: "user", Content: nudge})
	}
	s.retryCount++
	s.errTag = tag
}

// matchPart picks the concrete part name from the category's articles. A
// single distinct name needs no model call; otherwise the model's answer must
// quote one of the listed names or the lookup ends in NO_MATCH.
func (a *Agent) matchPart(ctx context.Context, s *state) {
	names := uniqueProductNames(s.partsList)

	if len(names) == 0 {
		s.result = result{status: StatusNoMatch, message: "No parts found in the category"}
		return
	}
	if len(names) == 1 {
		s.result = result{status: StatusSuccess, partName: names[0]}
		return
	}

	var bullets strings.Builder
	for _, name := range names {
		bullets.WriteString("- " + name + "\n")
	}

	userPrompt, err := prompts.Render(prompts.MatchPart, map[string]string{
		"part_description": s.partDescription,
		"parts_list":       strings.TrimRight(bullets.String(), "\n"),
	})
	if err != nil {
		s.result = result{status: StatusError, message: "Part matching failed: " + err.Error()}
		return
	}

	systemPrompt, _ := prompts.Get(prompts.System)
	// the answer is a single part name, no need for a long completion
	response, err := a.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.WithMaxTokens(matchAnswerMaxTokens))
	if err != nil {
		a.log.Error("partsagent", "part matching call failed", map[string]interface{}{"error": err.Error()})
		s.result = result{status: StatusError, message: "Part matching failed: " + err.Error()}
		return
	}

	replacement, err := utils.ParseXMLTag(response, "replacement")
	if err != nil || strings.TrimSpace(replacement) == "" {
		s.result = result{status: StatusNoMatch, message: "No suitable part found in the category"}
		return
	}
	replacement = strings.TrimSpace(replacement)

	for _, name := range names {
		if strings.EqualFold(name, replacement) {
			s.result = result{status: StatusSuccess, partName: name}
			return
		}
	}

	// the model answered with a name not on the list; never trust it
	a.log.Warn("partsagent", "model named a part outside the list", map[string]interface{}{"replacement": replacement})
	s.result = result{status: StatusNoMatch, message: "No suitable part found in the category"}
}

// getPartDetails resolves OEM numbers and a product image for the matched
// part. Failures here never fail the lookup, they just leave the extras
// empty.
func (a *Agent) getPartDetails(ctx context.Context, s *state) {
	if s.result.status != StatusSuccess || s.result.partName == "" {
		return
	}

	for _, article := range s.partsList {
		if !strings.EqualFold(strings.TrimSpace(article.ArticleProductName), s.result.partName) {
			continue
		}
		if article.ArticleId == 0 {
			continue
		}

		details, err := a.catalog.ArticleDetails(ctx, catalog.TypePassengerCar, article.ArticleId, catalog.LangEnglish, s.countryFilterID)
		if err != nil {
			a.log.Warn("partsagent", "article details failed", map[string]interface{}{
				"articleId": article.ArticleId,
				"error":     err.Error(),
			})
			continue
		}

		var oems []string
		for _, oem := range details.OemNo {
			if oem.OemDisplayNo != "" {
				oems = append(oems, oem.OemDisplayNo)
			}
		}
		if len(oems) == 0 {
			continue
		}

		s.oemNumbers = oems
		s.imageURL = details.S3Image
		return
	}
}

func (a *Agent) outcome(s *state) *Outcome {
	if s.retryCount >= MaxRetries && s.result.isZero() {
		return &Outcome{
			Status:     StatusMaxRetries,
			Message:    fmt.Sprintf("Unable to find valid category after %d attempts", MaxRetries),
			RetryCount: s.retryCount,
			OEMNumbers: []string{},
		}
	}

	out := &Outcome{
		Status:     s.result.status,
		PartName:   s.result.partName,
		Message:    s.result.message,
		RetryCount: s.retryCount,
		OEMNumbers: s.oemNumbers,
		ImageURL:   s.imageURL,
	}
	if out.Status == StatusSuccess {
		out.CategoryID = s.categoryID
		out.CategoryName = s.categoryName
	}
	if out.Status == "" {
		out.Status = StatusError
		out.Message = "lookup ended without a result"
	}
	if out.OEMNumbers == nil {
		out.OEMNumbers = []string{}
	}
	return out
}

func uniqueProductNames(articles []catalog.Article) []string {
	seen := make(map[string]bool)
	var names []string
	for _, article := range articles {
		name := strings.TrimSpace(article.ArticleProductName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
