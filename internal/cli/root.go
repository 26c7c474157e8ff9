package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"genaid/pkg/types"
)

const defaultServer = "http://127.0.0.1:8080"

// buildRootCmd constructs the genaictl command tree.
func buildRootCmd() *cobra.Command {
	server := defaultServer
	if v := os.Getenv("GENAID_SERVER"); v != "" {
		server = v
	}

	root := &cobra.Command{
		Use:           "genaictl",
		Short:         "Command-line client for the genaid inference daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&server, "server", server, "genaid base URL (defaults GENAID_SERVER or "+defaultServer+")")

	client := func() *Client { return NewClient(server) }

	modelsCmd := &cobra.Command{Use: "models", Short: "List models known to the daemon", RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client().Models(cmd.Context())
		if err != nil {
			return err
		}
		if len(resp.Models) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no models")
			return nil
		}
		for _, m := range resp.Models {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.ID, m.Path)
		}
		return nil
	}}

	statusCmd := &cobra.Command{Use: "status", Short: "Show daemon and instance status", RunE: func(cmd *cobra.Command, args []string) error {
		st, err := client().Status(cmd.Context())
		if err != nil {
			return err
		}
		printStatus(cmd, st)
		return nil
	}}

	var (
		genModel    string
		genMax      uint64
		genTemp     float64
		genTopP     float64
		genTopK     uint64
		genSample   bool
		genSeed     uint64
		genStop     []string
		genNoStream bool
		genJSON     bool
	)
	generateCmd := &cobra.Command{
		Use:     "generate [prompt...]",
		Short:   "Generate a completion, streaming tokens to stdout",
		Example: "  genaictl generate --model tinyllama-1.1b-int4 Write a haiku about the ocean.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.InferRequest{
				Model:     genModel,
				Prompt:    strings.Join(args, " "),
				Stream:    !genNoStream,
				MaxTokens: genMax,
				TopK:      genTopK,
				DoSample:  genSample,
				Stop:      genStop,
				Seed:      genSeed,
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &genTemp
			}
			if cmd.Flags().Changed("top-p") {
				req.TopP = &genTopP
			}
			onToken := func(tok string) { fmt.Fprint(cmd.OutOrStdout(), tok) }
			if genNoStream || genJSON {
				onToken = nil
			}
			final, err := client().Infer(cmd.Context(), req, onToken)
			if err != nil {
				return err
			}
			switch {
			case genJSON:
				fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", final)
			case genNoStream:
				fmt.Fprintln(cmd.OutOrStdout(), final.Content)
			default:
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "tokens=%d finish=%s throughput=%.1f tok/s\n",
				final.Usage.CompletionTokens, final.FinishReason, final.Perf.ThroughputMeanTPS)
			return nil
		},
	}
	generateCmd.Flags().StringVar(&genModel, "model", "", "Model id (empty uses the server default)")
	generateCmd.Flags().Uint64Var(&genMax, "max-tokens", 0, "Maximum new tokens (0 keeps the engine default)")
	generateCmd.Flags().Float64Var(&genTemp, "temperature", 1.0, "Sampling temperature")
	generateCmd.Flags().Float64Var(&genTopP, "top-p", 1.0, "Nucleus sampling probability")
	generateCmd.Flags().Uint64Var(&genTopK, "top-k", 0, "Top-K candidates (0 keeps the engine default)")
	generateCmd.Flags().BoolVar(&genSample, "do-sample", false, "Enable sampling instead of greedy decoding")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Random seed (0 lets the engine choose)")
	generateCmd.Flags().StringSliceVar(&genStop, "stop", nil, "Stop sequences (repeatable)")
	generateCmd.Flags().BoolVar(&genNoStream, "no-stream", false, "Buffer the full completion instead of streaming")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the final summary record instead of text")

	var tokModel string
	tokenizeCmd := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Count tokens for a text under a model's tokenizer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().Tokenize(cmd.Context(), tokModel, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", resp.NumTokens)
			return nil
		},
	}
	tokenizeCmd.Flags().StringVar(&tokModel, "model", "", "Model id (empty uses the server default)")

	var chatModel string
	chatCmd := &cobra.Command{Use: "chat", Short: "Toggle a model's chat session", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("chat requires a subcommand: start|finish")
	}}
	chatStart := &cobra.Command{Use: "start", Short: "Enter multi-turn chat mode", RunE: func(cmd *cobra.Command, args []string) error {
		if err := client().ChatStart(cmd.Context(), chatModel); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "chat started")
		return nil
	}}
	chatFinish := &cobra.Command{Use: "finish", Short: "Leave chat mode, dropping accumulated context", RunE: func(cmd *cobra.Command, args []string) error {
		if err := client().ChatFinish(cmd.Context(), chatModel); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "chat finished")
		return nil
	}}
	chatCmd.PersistentFlags().StringVar(&chatModel, "model", "", "Model id (empty uses the server default)")
	chatCmd.AddCommand(chatStart, chatFinish)

	var unloadModel string
	unloadCmd := &cobra.Command{
		Use:   "unload",
		Short: "Drain a model instance and release its pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().Unload(cmd.Context(), unloadModel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unloaded %s\n", unloadModel)
			return nil
		},
	}
	unloadCmd.Flags().StringVar(&unloadModel, "model", "", "Model id to unload")
	_ = unloadCmd.MarkFlagRequired("model")

	root.AddCommand(modelsCmd, statusCmd, generateCmd, tokenizeCmd, chatCmd, unloadCmd)
	return root
}

func printStatus(cmd *cobra.Command, st types.StatusResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "state: %s\n", st.State)
	if st.DefaultModel != "" {
		fmt.Fprintf(out, "default model: %s\n", st.DefaultModel)
	}
	if st.LastError != "" {
		fmt.Fprintf(out, "last error: %s\n", st.LastError)
	}
	fmt.Fprintf(out, "uptime: %ds, loads: %d\n", st.UptimeSeconds, st.LoadsTotal)
	for _, inst := range st.Instances {
		fmt.Fprintf(out, "  %s\t%s\t%s\tchat=%v queue=%d/%d inflight=%d\n",
			inst.ModelID, inst.State, inst.Device, inst.ChatActive, inst.QueueLen, inst.MaxQueueDepth, inst.Inflight)
	}
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
