package chef

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/ingredients"
	"github.com/spigell/career-chef/internal/logger"
	"github.com/spigell/career-chef/internal/notify"
)

// ParseResume sends the resume document to the backend, decodes the returned
// ingredient batch and replaces the session list with it. "Found nothing" is
// a valid outcome and yields an empty list.
func (s *Session) ParseResume(ctx context.Context, att *ai.Attachment) ([]ingredients.Ingredient, error) {
	if att.Empty() {
		return nil, s.fail(ai.NewValidationError("A resume document is required."))
	}

	log := logger.WithWorkflow(s.logger, "resume-ingestion")
	log.Info("parsing resume", zap.String("mime_type", att.MIMEType), zap.Int("size", len(att.Data)))

	resp, err := s.generator.Generate(ctx, BuildResumePrompt(att))
	if err != nil {
		return nil, s.fail(err)
	}

	list, err := ingredients.DecodeBatch(resp.Text)
	if err != nil {
		return nil, s.fail(err)
	}

	s.ReplaceIngredients(list)

	s.notifier.Notify(notify.Success(fmt.Sprintf("Extracted %d career facts from your resume.", len(list))))
	return list, nil
}

// ExtractJobPosting transcribes a job-posting screenshot into plain text.
func (s *Session) ExtractJobPosting(ctx context.Context, att *ai.Attachment) (string, error) {
	if att.Empty() {
		return "", s.fail(ai.NewValidationError("A job posting screenshot is required."))
	}

	log := logger.WithWorkflow(s.logger, "job-extraction")
	log.Info("extracting job posting text", zap.String("mime_type", att.MIMEType))

	resp, err := s.generator.Generate(ctx, BuildJobExtractionPrompt(att))
	if err != nil {
		return "", s.fail(err)
	}

	text := DecodeFreeText(resp.Text, jobExtractFallback)

	s.notifier.Notify(notify.Success("Job posting text extracted."))
	return text, nil
}

// AnalyzeMatch compares the ingredient set against the job posting. When the
// analysis names a real company, company research is chained strictly after
// it, best-effort: a research failure is reported separately and never
// invalidates the analysis.
func (s *Session) AnalyzeMatch(ctx context.Context, jobText string) (*MatchReport, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, s.fail(ai.NewValidationError("Job posting text is required for a match analysis."))
	}

	list := s.Ingredients()
	if len(list) == 0 {
		return nil, s.fail(ai.NewValidationError("Add at least one career fact before running a match analysis."))
	}

	log := logger.WithWorkflow(s.logger, "match-analysis")
	log.Info("running match analysis", zap.Int("ingredients", len(list)))

	resp, err := s.generator.Generate(ctx, BuildMatchAnalysisPrompt(list, jobText))
	if err != nil {
		return nil, s.fail(err)
	}

	analysis, err := DecodeMatchAnalysis(resp.Text)
	if err != nil {
		return nil, s.fail(err)
	}

	s.notifier.Notify(notify.Success(fmt.Sprintf("Match analysis complete: score %.0f/100.", analysis.Score)))

	report := &MatchReport{Analysis: analysis}
	if !analysis.HasCompany() {
		log.Debug("skipping company research", zap.String("reason", "no company name extracted"))
		return report, nil
	}

	research, err := s.researchCompany(ctx, analysis.CompanyName, list)
	if err != nil {
		log.Warn("company research failed", zap.String("company", analysis.CompanyName), zap.Error(err))
		s.notifier.Notify(notify.Info("Company research was unavailable: " + userMessage(err)))
		report.ResearchErr = err
		return report, nil
	}

	s.notifier.Notify(notify.Info(fmt.Sprintf("Company research for %s is ready.", analysis.CompanyName)))
	report.Research = research
	return report, nil
}

// ResearchCompany produces the free-text company brief on demand.
func (s *Session) ResearchCompany(ctx context.Context, company string) (*CompanyResearch, error) {
	if strings.TrimSpace(company) == "" {
		return nil, s.fail(ai.NewValidationError("A company name is required for research."))
	}

	research, err := s.researchCompany(ctx, company, s.Ingredients())
	if err != nil {
		return nil, s.fail(err)
	}

	s.notifier.Notify(notify.Success(fmt.Sprintf("Company research for %s is ready.", research.CompanyName)))
	return research, nil
}

func (s *Session) researchCompany(ctx context.Context, company string, list []ingredients.Ingredient) (*CompanyResearch, error) {
	log := logger.WithWorkflow(s.logger, "company-research")
	log.Info("researching company", zap.String("company", company))

	resp, err := s.generator.Generate(ctx, BuildCompanyResearchPrompt(company, list))
	if err != nil {
		return nil, err
	}

	return &CompanyResearch{
		CompanyName: strings.TrimSpace(company),
		Summary:     DecodeFreeText(resp.Text, researchFallback),
		// Search is disabled for now, so no citations come back.
		Sources: []Source{},
	}, nil
}

// GenerateCoverLetter writes a cover letter for the job posting. The
// instruction suppresses any culinary theming; the output is trusted, not
// post-filtered.
func (s *Session) GenerateCoverLetter(ctx context.Context, jobText, company string) (string, error) {
	if strings.TrimSpace(jobText) == "" {
		return "", s.fail(ai.NewValidationError("Job posting text is required for a cover letter."))
	}

	list := s.Ingredients()
	if len(list) == 0 {
		return "", s.fail(ai.NewValidationError("Add at least one career fact before generating a cover letter."))
	}

	log := logger.WithWorkflow(s.logger, "cover-letter")
	log.Info("generating cover letter", zap.String("company", company))

	resp, err := s.generator.Generate(ctx, BuildCoverLetterPrompt(list, jobText, company))
	if err != nil {
		return "", s.fail(err)
	}

	letter := DecodeFreeText(resp.Text, coverLetterFallback)

	s.notifier.Notify(notify.Success("Your cover letter is ready."))
	return letter, nil
}

// RefineText generates alternative phrasings for the submitted text. The
// result is transient, never stored on the session.
func (s *Session) RefineText(ctx context.Context, text string) ([]string, error) {
	variations, err := s.refineText(ctx, text)
	if err != nil {
		return nil, s.fail(err)
	}

	s.notifier.Notify(notify.Success(fmt.Sprintf("Generated %d alternative phrasings.", len(variations))))
	return variations, nil
}

// RefineTexts refines several independent texts concurrently. Results keep
// the input order; failed entries are nil and reported individually.
func (s *Session) RefineTexts(ctx context.Context, texts []string) ([][]string, error) {
	results := make([][]string, len(texts))
	failures := make([]error, len(texts))

	group, ctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		group.Go(func() error {
			variations, err := s.refineText(ctx, text)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = variations
			return nil
		})
	}

	// Workers never return errors, they record them instead, so every
	// independent refinement runs to completion.
	_ = group.Wait()

	refined := 0
	for i := range results {
		if failures[i] != nil {
			s.notifier.Notify(notify.Info(fmt.Sprintf("Refinement %d failed: %s", i+1, userMessage(failures[i]))))
			continue
		}
		refined++
	}

	s.notifier.Notify(notify.Success(fmt.Sprintf("Refined %d of %d texts.", refined, len(texts))))
	return results, nil
}

func (s *Session) refineText(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.NewValidationError("Text to refine must not be empty.")
	}

	log := logger.WithWorkflow(s.logger, "refinement")
	log.Debug("refining text", zap.Int("length", len(text)))

	resp, err := s.generator.Generate(ctx, BuildRefinementPrompt(text))
	if err != nil {
		return nil, err
	}

	return DecodeRefinement(resp.Text)
}
