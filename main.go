package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/communication/server"
	"tictactoe/config"
	"tictactoe/engine"
	"tictactoe/experiments"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/render"
	"tictactoe/searcher"
	"tictactoe/utils"
)

const usage = `usage: tictactoe <command> [flags]

commands:
  play        play one game between two configured agents
  match       play a series of games and store the records
  serve       serve moves over HTTP
  move        search a single position and print the chosen move
  throughput  measure search iterations per move for several budgets
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	logLevel := fs.String("log-level", "", "log level, overrides the config")
	noColor := fs.Bool("no-color", false, "disable colored output")

	var cmd func(context.Context, config.Config) error
	switch command {
	case "play":
		x := fs.String("x", "", "agent playing X")
		o := fs.String("o", "", "agent playing O")
		cmd = func(ctx context.Context, c config.Config) error {
			return play(ctx, c, *x, *o, in, out)
		}
	case "match":
		agent1 := fs.String("agent1", "", "first agent")
		agent2 := fs.String("agent2", "", "second agent")
		games := fs.Int("games", 0, "number of games")
		outputDir := fs.String("out", "", "directory for records")
		cmd = func(ctx context.Context, c config.Config) error {
			return match(ctx, c, *agent1, *agent2, *games, *outputDir, in, out)
		}
	case "serve":
		addr := fs.String("addr", "", "listen address")
		cmd = func(ctx context.Context, c config.Config) error {
			return serve(ctx, c, *addr)
		}
	case "move":
		board := fs.String("board", "   |   |   ", "board rows separated by '|'")
		toMove := fs.String("to-move", "X", "player to move")
		budget := fs.Int("budget", 1000, "search budget in milliseconds")
		cmd = func(ctx context.Context, c config.Config) error {
			return findMove(*board, *toMove, *budget, out)
		}
	case "throughput":
		budgets := fs.String("budgets", "1ms,10ms,100ms", "comma separated search budgets")
		games := fs.Int("games", 1, "self-play games per budget")
		outputDir := fs.String("out", "", "directory for records")
		cmd = func(ctx context.Context, c config.Config) error {
			return throughput(ctx, *budgets, *games, *outputDir, out)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	c := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		c = loaded
	}
	if *logLevel != "" {
		c.LogLevel = *logLevel
	}
	if err := setupLogger(c.LogLevel, *noColor); err != nil {
		return err
	}
	render.SetColor(!*noColor)

	return cmd(ctx, c)
}

func setupLogger(level string, noColor bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly, NoColor: noColor})
	return nil
}

func buildAgent(c config.Config, name string, in io.Reader, out io.Writer) (experiments.Contender, error) {
	ac, err := c.Lookup(name)
	if err != nil {
		return experiments.Contender{}, err
	}
	a, err := agent.FromConfig(ac, agent.Console{In: in, Out: out})
	if err != nil {
		return experiments.Contender{}, err
	}
	return experiments.Contender{Config: ac, Agent: a}, nil
}

func play(ctx context.Context, c config.Config, xName, oName string, in io.Reader, out io.Writer) error {
	xName = firstNonEmpty(xName, c.Play.X)
	oName = firstNonEmpty(oName, c.Play.O)
	x, err := buildAgent(c, xName, in, out)
	if err != nil {
		return err
	}
	o, err := buildAgent(c, oName, in, out)
	if err != nil {
		return err
	}

	start := game.NewState()
	fmt.Fprintf(out, "%s (X) vs %s (O)\n%s\n", xName, oName, render.Board(start, nil))

	stopwatch := utils.NewStopwatch()
	winner, gameMetric, _, err := engine.LocalEngine(x.Agent, o.Agent, start).
		OnMove(func(m metrics.MoveMetric, state game.State) {
			fmt.Fprintf(out, "%v plays %v after %s\n%s\n", m.Player, m.Move, utils.FormatDuration(stopwatch.Lap()), render.Board(state, &m.Move))
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s after %d moves in %s\n", render.Result(winner), gameMetric.TotalMoves, utils.FormatDuration(gameMetric.Duration))
	return nil
}

func match(ctx context.Context, c config.Config, name1, name2 string, games int, outputDir string, in io.Reader, out io.Writer) error {
	name1 = firstNonEmpty(name1, c.Match.Agent1)
	name2 = firstNonEmpty(name2, c.Match.Agent2)
	if games <= 0 {
		games = c.Match.Games
	}
	outputDir = firstNonEmpty(outputDir, c.Match.OutputDir)

	agent1, err := buildAgent(c, name1, in, out)
	if err != nil {
		return err
	}
	agent2, err := buildAgent(c, name2, in, out)
	if err != nil {
		return err
	}

	stopwatch := utils.NewStopwatch()
	result, err := experiments.RunMatch(ctx, experiments.Match{
		Name:      name1 + "-vs-" + name2,
		Agent1:    agent1,
		Agent2:    agent2,
		Games:     games,
		OutputDir: outputDir,
	})
	if err != nil {
		return err
	}
	total, each := stopwatch.Split(games)

	fmt.Fprintln(out, render.Tally(name1, name2, result.Tally))
	fmt.Fprintf(out, "elapsed %s, each game took %s\n", utils.FormatDuration(total), utils.FormatDuration(each))
	if result.Dir != "" {
		fmt.Fprintf(out, "records stored in %s\n", result.Dir)
	}
	return nil
}

func serve(ctx context.Context, c config.Config, addr string) error {
	decision, _ := searcher.ParseDecision(c.Server.Decision)
	sc := server.NewServerCommunicator(server.Config{
		DefaultBudget: time.Duration(c.Server.BudgetMs) * time.Millisecond,
		MaxBudget:     time.Duration(c.Server.MaxBudgetMs) * time.Millisecond,
		MaxIterations: c.Server.MaxIterations,
		Decision:      decision,
	})
	return sc.Start(ctx, firstNonEmpty(addr, c.Server.Addr))
}

func findMove(board, toMove string, budgetMs int, out io.Writer) error {
	player, err := game.ParsePlayer(toMove)
	if err != nil {
		return err
	}
	state, err := game.Parse(strings.Split(board, "|"), player)
	if err != nil {
		return err
	}
	if state.IsTerminal() {
		return fmt.Errorf("game is already over: %v", state)
	}

	stopwatch := utils.NewStopwatch()
	move := searcher.FindMove(state, budgetMs)
	fmt.Fprintf(out, "%v\n%s\nsearched %s\n", move, render.Board(state.Play(move), &move), utils.FormatDuration(stopwatch.Lap()))
	return nil
}

func throughput(ctx context.Context, budgetList string, games int, outputDir string, out io.Writer) error {
	var budgets []time.Duration
	for _, field := range strings.Split(budgetList, ",") {
		budget, err := time.ParseDuration(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("invalid budget %q: %w", field, err)
		}
		budgets = append(budgets, budget)
	}

	results, err := experiments.RunThroughputExperiment(ctx, budgets, games, outputDir)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-8v %10.0f iterations/move %10.0f nodes/move\n", r.Budget, r.MeanIterations, r.MeanNodes)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
