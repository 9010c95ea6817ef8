package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gamma-omg/lexi-explore/internal/explorer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore [phrase]",
		Short: "Explore the meaning of an English phrase in Uzbek",
		Long: `Explore asks the explore service how a phrase is used in real life.
With a phrase argument it prints one result and exits. Without arguments
it reads phrases from standard input, one per line.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd.Context(), v, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}

	flags := cmd.Flags()
	flags.String("url", "http://localhost:8080", "explore service URL")
	flags.String("api-key", "", "key sent as bearer token and apikey header")
	flags.Bool("speak", false, "save the audio of every example sentence")
	flags.String("audio-dir", "audio", "directory for saved audio")
	flags.Bool("verbose", false, "log requests to stderr")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("explore")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func runExplore(ctx context.Context, v *viper.Viper, in io.Reader, out, errOut io.Writer, args []string) error {
	level := slog.LevelError
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))

	baseURL, err := url.Parse(v.GetString("url"))
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return fmt.Errorf("invalid service url %q", v.GetString("url"))
	}

	client := explorer.NewClient(explorer.ClientConfig{
		BaseURL: baseURL,
		APIKey:  v.GetString("api-key"),
	})
	view := explorer.NewView(client, explorer.NotifierFunc(func(msg string) {
		fmt.Fprintln(errOut, msg)
	}))

	var speaker *explorer.Speaker
	if v.GetBool("speak") {
		player, err := newFilePlayer(v.GetString("audio-dir"))
		if err != nil {
			return err
		}
		speaker = explorer.NewSpeaker(client, player)
	}

	if len(args) > 0 {
		view.SetQuery(strings.Join(args, " "))
		return explore(ctx, view, speaker, out)
	}

	fmt.Fprintln(out, "Type a phrase e.g. 'comes at a price' (Ctrl+D to quit)")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		view.SetQuery(scanner.Text())
		if err := explore(ctx, view, speaker, out); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Debug("explore failed", "error", err)
		}
	}
}

func explore(ctx context.Context, view *explorer.View, speaker *explorer.Speaker, out io.Writer) error {
	if strings.TrimSpace(view.Query()) == "" {
		return nil
	}

	if err := view.Submit(ctx); err != nil {
		return err
	}

	res := view.Result()

	if err := explorer.Render(out, *res); err != nil {
		return fmt.Errorf("render result: %w", err)
	}

	if speaker == nil {
		return nil
	}

	for _, sentence := range res.Sentences() {
		if err := speaker.Speak(ctx, sentence); err != nil {
			return fmt.Errorf("speak %q: %w", sentence, err)
		}
	}

	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
