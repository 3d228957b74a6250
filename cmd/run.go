package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dmaryin/interview-coach/internal/ai"
	"github.com/dmaryin/interview-coach/internal/ai/gemini"
	"github.com/dmaryin/interview-coach/internal/ai/openai"
	"github.com/dmaryin/interview-coach/internal/extract"
	"github.com/dmaryin/interview-coach/internal/interview"
	"github.com/dmaryin/interview-coach/internal/logger"
	"github.com/dmaryin/interview-coach/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowSampleAnswers = "Show sample answers"
	PromptSaveReport        = "Save report to file"
	PromptNewInterview      = "Start a new interview"
	PromptExit              = "Exit"

	defaultProvider        = "gemini"
	defaultMaxRetries      = 2
	defaultGenerateTimeout = 3 * time.Minute
	defaultEvaluateTimeout = 2 * time.Minute
)

var errExit = errors.New("exit requested")

var endPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowSampleAnswers, PromptSaveReport, PromptNewInterview, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("cv", "c", "", "path to the CV file (pdf, docx, txt, png, jpg)")
	runCmd.Flags().String("jd", "", "job description text")
	runCmd.Flags().String("jd-file", "", "file containing the job description text")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	logger.Info("starting the interview-coach", zap.String("version", version))

	generator, provider, err := buildGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the AI generator",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or OPENAI_API_KEY, or the api-key-file key in the configuration file"),
		)
	}

	logger = withAIFields(logger, provider, generator)

	cvText, err := extractCV(ctx, cmd, logger)
	if err != nil {
		logger.Fatal("processing the CV", zap.Error(err))
	}

	jdText, err := resolveJobDescription(cmd)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	store := interview.NewStore()
	session := store.Create(generator, logger)
	if config.AI != nil {
		session.SetMaxLogLength(config.AI.MaxLogLength)
	}

	timeouts := resolveTimeouts(config)

	for {
		if err := runInterview(ctx, session, cvText, jdText, timeouts, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// runInterview drives one full session pass: generation, the answer loop,
// evaluation and the end-of-interview menu. Returning nil means the user
// asked for a fresh interview.
func runInterview(ctx context.Context, session *interview.Session, cvText, jdText string, timeouts TimeoutConfig, logger *zap.Logger) error {
	logger.Info("generating interview questions")

	genCtx, cancel := context.WithTimeout(ctx, timeouts.Generate)
	err := session.Start(genCtx, cvText, jdText)
	cancel()
	if err != nil {
		return fmt.Errorf("starting the interview: %w", err)
	}

	_, total := session.Progress()
	logger.Info("interview ready", zap.Int("questions", total))

	if err := answerLoop(session); err != nil {
		return err
	}

	printTranscript(session)

	logger.Info("evaluating answers collectively")

	evalCtx, cancel := context.WithTimeout(ctx, timeouts.Evaluate)
	feedback, err := session.Evaluate(evalCtx)
	cancel()
	if err != nil {
		// The session still completes with the default feedback pair.
		logger.Warn("evaluation degraded", zap.Error(err))
	}

	fmt.Printf("\nOverall feedback:\n%s\n", feedback.Text)
	fmt.Printf("\nFinal score: %s\n\n", feedback.DisplayScore())

	return endMenu(session, logger)
}

func answerLoop(session *interview.Session) error {
	for {
		record, number, ok := session.CurrentQuestion()
		if !ok {
			return nil
		}

		fmt.Printf("\nQ%d: %s\n", number, record.Question)

		answerPrompt := promptui.Prompt{Label: "Your answer"}
		answer, err := answerPrompt.Run()
		if err != nil {
			return fmt.Errorf("reading answer: %w", err)
		}

		if err := session.SubmitAnswer(answer); err != nil {
			if errors.Is(err, interview.ErrValidation) {
				fmt.Println("Answer cannot be empty.")
				continue
			}
			return err
		}
	}
}

func printTranscript(session *interview.Session) {
	fmt.Println("\nInterview complete. Here are your responses:")
	for _, exchange := range session.Transcript() {
		fmt.Printf("\nQ%d: %s\nYour answer: %s\n", exchange.Number, exchange.Question, exchange.Answer)
	}
}

func endMenu(session *interview.Session, logger *zap.Logger) error {
	for {
		_, action, err := endPrompt.Run()
		if err != nil {
			return fmt.Errorf("reading menu choice: %w", err)
		}

		switch action {
		case PromptShowSampleAnswers:
			for i, question := range session.Questions() {
				fmt.Printf("\nQ%d: %s\nSample answer: %s\nKey points: %s\n",
					i+1, question.Question, question.SampleAnswer, question.KeyPoints)
			}
		case PromptSaveReport:
			filename, err := session.Report().DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("save report: %w", err)
			}
			logger.Info("report saved", zap.String("filename", filename))
		case PromptNewInterview:
			session.Reset()
			return nil
		case PromptExit:
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

// buildGenerator selects the provider from the config and wraps it with the
// retry decorator.
func buildGenerator(ctx context.Context, config *Config, log *zap.Logger) (ai.Generator, string, error) {
	provider := defaultProvider
	maxRetries := defaultMaxRetries

	aiCfg := config.AI
	if aiCfg != nil {
		if p := strings.TrimSpace(aiCfg.Provider); p != "" {
			provider = strings.ToLower(p)
		}
		if aiCfg.MaxRetries > 0 {
			maxRetries = aiCfg.MaxRetries
		}
	}

	var generator ai.Generator
	switch provider {
	case "gemini":
		cfg := &GeminiConfig{}
		if aiCfg != nil && aiCfg.Gemini != nil {
			cfg = aiCfg.Gemini
		}

		key, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, provider, err
		}

		generator, err = gemini.NewGenerator(ctx, key, cfg.Model)
		if err != nil {
			return nil, provider, err
		}
	case "openai":
		cfg := &OpenAIConfig{}
		if aiCfg != nil && aiCfg.OpenAI != nil {
			cfg = aiCfg.OpenAI
		}

		key, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, provider, err
		}

		generator, err = openai.NewGenerator(key, cfg.Model)
		if err != nil {
			return nil, provider, err
		}
	default:
		return nil, provider, fmt.Errorf("unsupported ai provider: %s", provider)
	}

	return ai.WithRetries(generator, maxRetries, log), provider, nil
}

func withAIFields(log *zap.Logger, provider string, generator ai.Generator) *zap.Logger {
	return logger.WithCommonFields(log, provider, generator.Model())
}

// extractCV opens the CV file named by the --cv flag and converts it to
// plain text. A missing flag or unreadable file blocks the start action.
func extractCV(ctx context.Context, cmd *cobra.Command, log *zap.Logger) (string, error) {
	path, err := cmd.Flags().GetString("cv")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", errors.New("a CV file is required, pass it with --cv")
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open CV file: %w", err)
	}
	defer file.Close()

	svc := extract.New(log)
	text, err := svc.Extract(ctx, file, extract.TypeFromFilename(path))
	if err != nil {
		return "", err
	}

	log.Info("extracted CV text", zap.String("file", path), zap.Int("characters", len(text)))

	return text, nil
}

// resolveJobDescription reads the JD from --jd, then --jd-file, then an
// interactive prompt.
func resolveJobDescription(cmd *cobra.Command) (string, error) {
	jd, err := cmd.Flags().GetString("jd")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(jd) != "" {
		return jd, nil
	}

	jdFile, err := cmd.Flags().GetString("jd-file")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(jdFile) != "" {
		data, err := os.ReadFile(jdFile)
		if err != nil {
			return "", fmt.Errorf("read job description file: %w", err)
		}
		return string(data), nil
	}

	jdPrompt := promptui.Prompt{Label: "Job description"}
	return jdPrompt.Run()
}

func resolveTimeouts(config *Config) TimeoutConfig {
	timeouts := TimeoutConfig{
		Generate: defaultGenerateTimeout,
		Evaluate: defaultEvaluateTimeout,
	}

	if config.Timeouts != nil {
		if config.Timeouts.Generate > 0 {
			timeouts.Generate = config.Timeouts.Generate
		}
		if config.Timeouts.Evaluate > 0 {
			timeouts.Evaluate = config.Timeouts.Evaluate
		}
	}

	return timeouts
}
