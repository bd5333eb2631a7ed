// Command wordseed overlays a learner's vocabulary onto HTML documents or
// WebVTT subtitle files.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/wordseed/wordseed"
	"github.com/wordseed/wordseed/cache"
	"github.com/wordseed/wordseed/provider"
	"github.com/wordseed/wordseed/subtitle"
	"github.com/wordseed/wordseed/vocab"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = wordseed.Version
	commit    = wordseed.GitCommit
	buildDate = wordseed.BuildDate
)

// envConfig holds environment-sourced defaults; flags override them.
type envConfig struct {
	RedisURL string `env:"WORDSEED_REDIS_URL" env-description:"Redis URL for the shared render cache"`
	CacheTTL int    `env:"WORDSEED_CACHE_TTL" env-default:"3600" env-description:"Render cache TTL in seconds"`
	Lang     string `env:"WORDSEED_LANG" env-description:"Language of the vocabulary's translations"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("wordseed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg envConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	// Flags
	vocabPath := fs.String("vocab", "", "Vocabulary JSON file (required unless -db is set)")
	dbPath := fs.String("db", "", "SQLite vocabulary database")
	compoundsPath := fs.String("compounds", "", "Compound dictionary JSON file")
	mode := fs.String("mode", "learn", "Replacement mode: learn or practice")
	lang := fs.String("lang", cfg.Lang, "Language of the translations (e.g., zh_CN)")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	readable := fs.Bool("readable", false, "Treat the argument as a URL: fetch and extract the article first")
	vtt := fs.Bool("vtt", false, "Treat input as a WebVTT subtitle file")
	chunkSize := fs.Int("chunk-size", wordseed.DefaultChunkSize, "Vocabulary keys per compiled matcher chunk")
	smart := fs.String("smart", "", "Smart translation backend: openai or mock (bypasses the literal matcher)")
	model := fs.String("model", "", "Model for -smart openai (default: gpt-4o-mini)")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	redisURL := fs.String("redis-url", cfg.RedisURL, "Redis URL for the shared render cache (VTT mode)")
	cacheTTL := fs.Int("cache-ttl", cfg.CacheTTL, "Render cache TTL in seconds (0 to disable)")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	jsonOutput := fs.Bool("json", false, "Output stats as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", wordseed.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	// Handle -o alias for --output
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	replaceMode := wordseed.Mode(*mode)
	if replaceMode != wordseed.ModeLearn && replaceMode != wordseed.ModePractice {
		return fmt.Errorf("--mode must be learn or practice, got %q", *mode)
	}

	// Load vocabulary
	vocabulary, err := loadVocabulary(*vocabPath, *dbPath)
	if err != nil {
		return err
	}

	var compounds map[string]string
	if *compoundsPath != "" {
		compounds, err = vocab.LoadCompoundsJSON(*compoundsPath)
		if err != nil {
			return err
		}
	}

	// Get input
	input, inputName, err := readInput(fs, *readable)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	if *quiet {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	index := wordseed.NewIndex(
		wordseed.WithChunkSize(*chunkSize),
		wordseed.WithIndexLogger(logger),
	)
	resolver := wordseed.NewCompoundResolver(compounds)

	start := time.Now()
	var result string
	var stats *wordseed.Stats

	switch {
	case *smart != "":
		result, err = runSmart(*smart, *apiKey, *model, *lang, replaceMode, vocabulary, input)
		stats = &wordseed.Stats{}
	case *vtt:
		result, stats, err = runVTT(index, resolver, replaceMode, vocabulary, input, *redisURL, *cacheTTL)
	default:
		result, stats, err = runHTML(index, resolver, replaceMode, *lang, vocabulary, input, logger)
	}
	if err != nil {
		return err
	}

	if !*quiet {
		logger.Info("overlay complete",
			"input", inputName,
			"words", len(vocabulary),
			"units", stats.Units,
			"compounds", stats.Compounds,
			"elapsed", time.Since(start).Round(time.Millisecond))
	}

	if *jsonOutput {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stderr, string(data))
	}

	// Write output
	if *output != "" {
		return os.WriteFile(*output, []byte(result), 0o644)
	}
	_, err = fmt.Fprint(stdout, result)
	return err
}

func loadVocabulary(vocabPath, dbPath string) (wordseed.Vocabulary, error) {
	switch {
	case dbPath != "":
		store, err := vocab.OpenStore(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Snapshot(context.Background())
	case vocabPath != "":
		return vocab.LoadVocabularyJSON(vocabPath)
	default:
		return nil, fmt.Errorf("--vocab or --db is required")
	}
}

func readInput(fs *flag.FlagSet, readable bool) (content, name string, err error) {
	if fs.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	arg := fs.Arg(0)
	if readable {
		content, err := fetchReadable(arg)
		if err != nil {
			return "", "", err
		}
		return content, arg, nil
	}

	data, err := os.ReadFile(arg) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), arg, nil
}

// fetchReadable downloads a page and extracts the readable article before
// overlaying, so navigation chrome never gets annotated.
func fetchReadable(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetching URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching URL: status %d", resp.StatusCode)
	}

	const maxBodySize = 10 * 1024 * 1024
	body := io.LimitReader(resp.Body, maxBodySize)

	article, err := readability.FromReader(body, parsed)
	if err != nil {
		return "", fmt.Errorf("extracting article: %w", err)
	}
	return article.Content, nil
}

func runHTML(index *wordseed.Index, resolver *wordseed.CompoundResolver, mode wordseed.Mode, lang string, vocabulary wordseed.Vocabulary, input string, logger *slog.Logger) (string, *wordseed.Stats, error) {
	rw := wordseed.NewRewriter(index,
		wordseed.WithMode(mode),
		wordseed.WithCompounds(resolver),
		wordseed.WithLang(lang),
		wordseed.WithRewriteLogger(logger),
	)
	rw.SetVocabulary(vocabulary)
	return rw.RewriteHTML(input)
}

// runSmart routes the whole input through a smart-translation backend
// instead of the literal matcher. The backend sits behind the rate-limit
// and retry wrappers, so transient provider failures are retried and
// request pacing is enforced per attempt.
func runSmart(backend, apiKey, model, lang string, mode wordseed.Mode, vocabulary wordseed.Vocabulary, input string) (string, error) {
	var base wordseed.Translator
	switch backend {
	case "mock":
		base = provider.NewMock()
	case "openai":
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return "", fmt.Errorf("--api-key or OPENAI_API_KEY is required for -smart openai")
		}
		base = provider.NewOpenAI(provider.OpenAIConfig{APIKey: apiKey, Model: model})
	default:
		return "", fmt.Errorf("--smart must be openai or mock, got %q", backend)
	}

	limited := wordseed.NewRateLimitedTranslator(base, wordseed.RateLimitConfig{})
	translator := wordseed.NewRetryableTranslator(limited, wordseed.DefaultRetryConfig())

	return translator.Translate(context.Background(), wordseed.TranslateRequest{
		Text:       input,
		Vocabulary: vocabulary,
		Mode:       mode,
		TargetLang: lang,
	})
}

func runVTT(index *wordseed.Index, resolver *wordseed.CompoundResolver, mode wordseed.Mode, vocabulary wordseed.Vocabulary, input, redisURL string, cacheTTL int) (string, *wordseed.Stats, error) {
	var renderCache cache.RenderCache
	if redisURL != "" {
		rc, err := cache.NewRedis(cache.RedisConfig{URL: redisURL, TTL: cacheTTL})
		if err != nil {
			return "", nil, fmt.Errorf("connecting to Redis: %w", err)
		}
		defer rc.Close()
		renderCache = rc
	} else if cacheTTL > 0 {
		renderCache = cache.NewMemory(cacheTTL)
	}

	cues, err := subtitle.ParseWebVTT(strings.NewReader(input))
	if err != nil {
		return "", nil, fmt.Errorf("parsing WebVTT: %w", err)
	}

	renderer := subtitle.NewRenderer(index,
		subtitle.WithMode(mode),
		subtitle.WithCompounds(resolver),
		subtitle.WithCache(renderCache),
	)
	renderer.SetVocabulary(vocabulary)

	rendered, err := renderer.RenderAll(context.Background(), cues)
	if err != nil {
		return "", nil, err
	}

	var out strings.Builder
	if err := subtitle.FormatWebVTT(&out, rendered); err != nil {
		return "", nil, err
	}

	stats := &wordseed.Stats{TextNodes: len(cues)}
	for i := range cues {
		if rendered[i].Text != cues[i].Text {
			stats.Rewritten++
		}
	}
	return out.String(), stats, nil
}
