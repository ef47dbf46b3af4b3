package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gridiron/bot"
	"gridiron/config"
	"gridiron/eval"
	"gridiron/experiments"
	"gridiron/experiments/metrics"
	"gridiron/searcher"
	"gridiron/server"
)

func main() {
	mode := flag.String("mode", "serve", "serve an HTTP decision endpoint, or selfplay a recorded series")
	configPath := flag.String("config", "", "path to a YAML config file, empty for defaults")
	games := flag.Int("games", 10, "number of self-play games")
	name := flag.String("name", "selfplay", "experiment name for the self-play output directory")
	baseline := flag.Bool("baseline", false, "pit the search agent against the scripted baseline")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	switch *mode {
	case "serve":
		err = serve(cfg)
	case "selfplay":
		err = selfplay(cfg, *name, *games, *baseline)
	default:
		log.Fatal().Msgf("unknown mode %q: want serve or selfplay", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("run failed")
	}
}

func serve(cfg config.Config) error {
	b, closeEval, err := searchBot(cfg)
	if err != nil {
		return err
	}
	defer closeEval()

	log.Info().Str("addr", cfg.Server.Addr).Dur("budget", cfg.Server.Budget()).Msg("serving decisions")
	return server.New(b, cfg.Server.Budget()).ListenAndServe(cfg.Server.Addr)
}

func selfplay(cfg config.Config, name string, games int, baseline bool) error {
	home, closeHome, err := searchAgent(cfg, 1)
	if err != nil {
		return err
	}
	defer closeHome()

	away, closeAway, err := awayAgent(cfg, baseline)
	if err != nil {
		return err
	}
	defer closeAway()

	return experiments.Run(name, home, away, games, cfg.Search.Seed)
}

func awayAgent(cfg config.Config, baseline bool) (experiments.Agent, func(), error) {
	if !baseline {
		return searchAgent(cfg, 2)
	}
	engine, err := cfg.Dice.Engine()
	if err != nil {
		return experiments.Agent{}, nil, err
	}
	policy, err := cfg.Dice.Policy()
	if err != nil {
		return experiments.Agent{}, nil, err
	}
	agent := experiments.Agent{
		Config: metrics.AgentConfig{ID: 2, Name: "baseline", Evaluator: "none"},
		Bot:    bot.NewBaseline(engine, policy),
	}
	return agent, func() {}, nil
}

func searchAgent(cfg config.Config, id int) (experiments.Agent, func(), error) {
	b, closeEval, err := searchBot(cfg, searcher.WithMetrics())
	if err != nil {
		return experiments.Agent{}, nil, err
	}
	agent := experiments.Agent{
		Config: metrics.AgentConfig{
			ID:         id,
			Name:       "search",
			Goroutines: cfg.Search.Goroutines,
			Duration:   cfg.Search.Budget(),
			Iterations: cfg.Search.Iterations,
			Evaluator:  cfg.Evaluator.Kind,
		},
		Bot: b,
	}
	return agent, closeEval, nil
}

// searchBot assembles a search-driven bot from the config. The returned
// closer releases the value network when one is configured.
func searchBot(cfg config.Config, extra ...searcher.Option) (*bot.Bot, func(), error) {
	engine, err := cfg.Dice.Engine()
	if err != nil {
		return nil, nil, err
	}
	policy, err := cfg.Dice.Policy()
	if err != nil {
		return nil, nil, err
	}
	evaluator, err := cfg.Evaluator.Build(engine, policy, cfg.Search.Seed)
	if err != nil {
		return nil, nil, err
	}

	options := append(cfg.Search.Options(), searcher.WithEvaluator(evaluator))
	options = append(options, extra...)

	closeEval := func() {
		net, ok := evaluator.(*eval.Net)
		if !ok {
			return
		}
		if err := net.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close the value network")
		}
	}
	return bot.New(engine, policy, options...), closeEval, nil
}
