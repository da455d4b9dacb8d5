package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/career-chef/internal/ai"
	"github.com/spigell/career-chef/internal/ai/gemini"
	"github.com/spigell/career-chef/internal/chef"
	"github.com/spigell/career-chef/internal/ingredients"
	"github.com/spigell/career-chef/internal/interview"
	"github.com/spigell/career-chef/internal/logger"
	"github.com/spigell/career-chef/internal/notify"
	"github.com/spigell/career-chef/internal/secrets"
	"github.com/spigell/career-chef/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptParseResume    = "Parse a resume file"
	PromptListFacts      = "List career facts"
	PromptAddFact        = "Add a career fact"
	PromptRemoveFact     = "Remove a career fact"
	PromptExtractJob     = "Load a job posting from file"
	PromptPasteJob       = "Paste a job posting"
	PromptAnalyzeMatch   = "Analyze job match"
	PromptCoverLetter    = "Generate a cover letter"
	PromptRefine         = "Refine a text"
	PromptInterview      = "Practice interview"
	PromptSaveExit       = "Save & exit"
	PromptBack           = "back"
	PromptAnswer         = "Answer the question"
	PromptAnswerAudio    = "Answer with an audio file"
	PromptNextQuestion   = "Ask the next question"
	PromptRestart        = "Restart the interview"
	PromptStartInterview = "Start a new interview"
)

var errExit = errors.New("exit requested")

var mainPrompt = promptui.Select{
	Label: "What are we cooking?",
	Items: []string{
		PromptParseResume, PromptListFacts, PromptAddFact, PromptRemoveFact,
		PromptExtractJob, PromptPasteJob, PromptAnalyzeMatch, PromptCoverLetter,
		PromptRefine, PromptInterview, PromptSaveExit,
	},
	Size: 11,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive career-chef assistant",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("storage-path", "s", "", "directory for the local database. Default is ~/.career-chef")

	viper.BindPFlag("storage-path", runCmd.Flags().Lookup("storage-path"))
}

// session bundles everything the interactive loop works with.
type session struct {
	chef      *chef.Session
	interview *interview.Session
	db        *store.Store
	logger    *zap.Logger

	// jobText and company carry the latest analyzed posting between menu
	// actions.
	jobText string
	company string
}

// run is the main command for the cli.
func run() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-chef", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the gemini client",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	db, err := store.Open(resolveStoragePath(config))
	if err != nil {
		logger.Fatal("opening the local database", zap.Error(err))
	}
	defer db.Close()

	notifier := notify.NewZapNotifier(logger)

	s := &session{
		chef:      chef.NewSession(generator, notifier, logger),
		interview: interview.NewSession(generator, notifier, logger),
		db:        db,
		logger:    logger,
	}

	if err := s.loadIngredients(); err != nil {
		logger.Warn("loading saved career facts", zap.Error(err))
	}

	logger.Info("loaded career facts", zap.Int("count", len(s.chef.Ingredients())))

	for {
		_, action, err := mainPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			// Workflow failures are already notified, the loop continues.
			logger.Debug("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func (s *session) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptParseResume:
		return s.parseResume(ctx)
	case PromptListFacts:
		s.listFacts()
		return nil
	case PromptAddFact:
		return s.addFact()
	case PromptRemoveFact:
		return s.removeFact()
	case PromptExtractJob:
		return s.extractJob(ctx)
	case PromptPasteJob:
		return s.pasteJob()
	case PromptAnalyzeMatch:
		return s.analyzeMatch(ctx)
	case PromptCoverLetter:
		return s.coverLetter(ctx)
	case PromptRefine:
		return s.refine(ctx)
	case PromptInterview:
		return s.interviewLoop(ctx)
	case PromptSaveExit:
		if err := s.saveIngredients(); err != nil {
			s.logger.Error("saving career facts", zap.Error(err))
			return err
		}
		s.logger.Info("career facts saved, bye")
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) parseResume(ctx context.Context) error {
	att, err := promptAttachment("Path to the resume file")
	if err != nil {
		return err
	}

	list, err := s.chef.ParseResume(ctx, att)
	if err != nil {
		return err
	}

	printIngredients(list)
	return nil
}

func (s *session) listFacts() {
	printIngredients(s.chef.Ingredients())
}

func (s *session) addFact() error {
	name, err := promptLine("Fact name (e.g. a skill or an employer)")
	if err != nil {
		return err
	}

	categoryPrompt := promptui.Select{
		Label: "Category",
		Items: []string{
			string(ingredients.CategorySkill),
			string(ingredients.CategoryExperience),
			string(ingredients.CategoryEducation),
			string(ingredients.CategoryCertification),
			string(ingredients.CategoryProject),
		},
	}
	_, category, err := categoryPrompt.Run()
	if err != nil {
		return err
	}

	details, err := promptOptionalLine("Details (optional)")
	if err != nil {
		return err
	}

	added := s.chef.AddIngredient(name, ingredients.Category(category), details)
	fmt.Printf("added: [%s] %s\n", added.Category, added.Name)
	return nil
}

func (s *session) removeFact() error {
	list := s.chef.Ingredients()
	if len(list) == 0 {
		fmt.Println("no career facts yet")
		return nil
	}

	items := make([]string, 0, len(list)+1)
	for _, ing := range list {
		items = append(items, fmt.Sprintf("[%s] %s", ing.Category, ing.Name))
	}

	factPrompt := promptui.Select{
		Label: "Choose a fact to remove",
		Items: append(items, PromptBack),
	}

	index, selected, err := factPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	return s.chef.RemoveIngredient(list[index].ID)
}

func (s *session) extractJob(ctx context.Context) error {
	att, err := promptAttachment("Path to the job posting file")
	if err != nil {
		return err
	}

	jobText, err := s.chef.ExtractJobPosting(ctx, att)
	if err != nil {
		return err
	}

	s.jobText = jobText
	s.company = ""
	fmt.Println(jobText)
	return nil
}

func (s *session) pasteJob() error {
	jobText, err := promptLine("Job posting text")
	if err != nil {
		return err
	}

	s.jobText = jobText
	s.company = ""
	return nil
}

func (s *session) analyzeMatch(ctx context.Context) error {
	report, err := s.chef.AnalyzeMatch(ctx, s.jobText)
	if err != nil {
		return err
	}

	s.company = report.Analysis.CompanyName

	fmt.Printf("match score: %.0f/100 (%s)\n", report.Analysis.Score, report.Analysis.CompanyName)
	fmt.Println(report.Analysis.FitSummary)
	for _, missing := range report.Analysis.MissingRequirements {
		fmt.Printf("missing: %s\n", missing)
	}
	for _, tip := range report.Analysis.ImprovementTips {
		fmt.Printf("tip: %s\n", tip)
	}
	if report.Research != nil {
		fmt.Println(report.Research.Summary)
	}
	return nil
}

func (s *session) coverLetter(ctx context.Context) error {
	letter, err := s.chef.GenerateCoverLetter(ctx, s.jobText, s.company)
	if err != nil {
		return err
	}

	fmt.Println(letter)
	return nil
}

func (s *session) refine(ctx context.Context) error {
	text, err := promptLine("Text to refine")
	if err != nil {
		return err
	}

	variations, err := s.chef.RefineText(ctx, text)
	if err != nil {
		return err
	}

	for i, variation := range variations {
		fmt.Printf("%d. %s\n", i+1, variation)
	}
	return nil
}

func (s *session) interviewLoop(ctx context.Context) error {
	interviewPrompt := promptui.Select{
		Label: "Interview",
		Items: []string{
			PromptStartInterview, PromptAnswer, PromptAnswerAudio,
			PromptNextQuestion, PromptRestart, PromptBack,
		},
	}

	for {
		_, action, err := interviewPrompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptBack:
			return nil
		case PromptStartInterview:
			question, err := s.interview.Start(ctx, s.chef.Ingredients(), s.jobText)
			if err != nil {
				continue
			}
			fmt.Printf("interviewer: %s\n", question.Content)
		case PromptAnswer:
			answer, err := promptLine("Your answer")
			if err != nil {
				return err
			}
			s.submitAnswer(ctx, answer, nil)
		case PromptAnswerAudio:
			audio, err := promptAttachment("Path to the audio recording")
			if err != nil {
				return err
			}
			s.submitAnswer(ctx, "", audio)
		case PromptNextQuestion:
			question, err := s.interview.NextQuestion(ctx)
			if err != nil {
				continue
			}
			fmt.Printf("interviewer: %s\n", question.Content)
		case PromptRestart:
			s.interview.Restart()
		}
	}
}

// submitAnswer evaluates one answer and prints the feedback plus the next
// question if the cycle completed. Failures are already notified.
func (s *session) submitAnswer(ctx context.Context, answer string, audio *ai.Attachment) {
	var eval *interview.Evaluation
	var err error

	if audio != nil {
		eval, err = s.interview.SubmitAudioAnswer(ctx, audio)
	} else {
		eval, err = s.interview.SubmitAnswer(ctx, answer)
	}
	if err != nil {
		return
	}

	if eval.Transcription != "" {
		fmt.Printf("you said: %s\n", eval.Transcription)
	}
	fmt.Printf("score %d/10: %s\n", eval.Score, eval.Feedback)

	history := s.interview.History()
	if len(history) > 0 && history[len(history)-1].Role == interview.RoleInterviewer {
		fmt.Printf("interviewer: %s\n", history[len(history)-1].Content)
	}
}

func (s *session) loadIngredients() error {
	data, err := s.db.Get(ingredients.StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	list, err := ingredients.UnmarshalList(data)
	if err != nil {
		return err
	}

	s.chef.ReplaceIngredients(list)
	return nil
}

func (s *session) saveIngredients() error {
	data, err := ingredients.MarshalList(s.chef.Ingredients())
	if err != nil {
		return err
	}

	return s.db.Put(ingredients.StorageKey, data)
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	return gemini.New(ctx, gemini.Config{
		APIKey:       apiKey,
		Model:        cfg.Gemini.Model,
		MaxRetries:   cfg.Gemini.MaxRetries,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}, logger)
}

func resolveStoragePath(config *Config) string {
	path := strings.TrimSpace(config.StoragePath)
	if path == "" {
		path = strings.TrimSpace(viper.GetString("storage-path"))
	}
	if path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "." + app
	}
	return filepath.Join(home, "."+app)
}

func printIngredients(list []ingredients.Ingredient) {
	if len(list) == 0 {
		fmt.Println("no career facts yet")
		return
	}
	fmt.Println(chef.FormatIngredients(list))
}

func promptLine(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("a value is required")
			}
			return nil
		},
	}

	value, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptOptionalLine(label string) (string, error) {
	p := promptui.Prompt{Label: label}

	value, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// promptAttachment asks for a file path and packs the file's bytes with a
// MIME type derived from the extension.
func promptAttachment(label string) (*ai.Attachment, error) {
	path, err := promptLine(label)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &ai.Attachment{Data: data, MIMEType: mimeTypeFor(path)}, nil
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	case ".webm":
		return "audio/webm"
	case ".md", ".markdown":
		return "text/markdown"
	default:
		return "text/plain"
	}
}
