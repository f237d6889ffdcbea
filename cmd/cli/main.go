package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:           "youtubesave",
		Short:         "YouTubeSave CLI - look up and download videos through a youtubesave server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5050", "Server URL")

	client := func() *apiClient { return newAPIClient(serverURL) }

	rootCmd.AddCommand(newInfoCmd(client))
	rootCmd.AddCommand(newDownloadCmd(client))
	rootCmd.AddCommand(newHistoryCmd(client))
	rootCmd.AddCommand(newHealthCmd(client))
	return rootCmd
}

func newInfoCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "info [url]",
		Short: "Show title and available formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := client().Info(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:    %s\n", meta.Title)
			fmt.Fprintf(out, "ID:       %s\n", meta.ID)
			if meta.Uploader != "" {
				fmt.Fprintf(out, "Uploader: %s\n", meta.Uploader)
			}
			if meta.Duration != nil {
				fmt.Fprintf(out, "Duration: %s\n", formatDuration(*meta.Duration))
			}
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FORMAT\tQUALITY\tKIND\tEXT\tSIZE")
			for _, f := range meta.Formats {
				size := ""
				if f.Filesize != nil {
					size = formatBytes(*f.Filesize)
				} else if f.SizeHint != nil {
					size = *f.SizeHint
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.FormatID, f.Quality, f.Kind, f.Ext, size)
			}
			return w.Flush()
		},
	}
}

func newDownloadCmd(client func() *apiClient) *cobra.Command {
	var formatID, output string

	cmd := &cobra.Command{
		Use:   "download [url]",
		Short: "Download one format of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, n, err := client().Download(args[0], formatID, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", path, formatBytes(n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatID, "format", "f", "", "Format ID (see 'info')")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "Output directory")
	_ = cmd.MarkFlagRequired("format")
	return cmd
}

func newHistoryCmd(client func() *apiClient) *cobra.Command {
	var limit int
	var stats bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent requests recorded by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if stats {
				s, err := client().Stats()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Request Statistics:")
				fmt.Fprintf(out, "  Total:     %d\n", s.Total)
				fmt.Fprintf(out, "  Succeeded: %d\n", s.Succeeded)
				fmt.Fprintf(out, "  Failed:    %d\n", s.Failed)
				return nil
			}

			list, err := client().History(limit)
			if err != nil {
				return err
			}
			return printHistory(out, list)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show totals instead of entries")
	return cmd
}

func newHealthCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := client().Health()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status:    %v\nVersion:   %v\nExtractor: %v\n",
				health["status"], health["version"], health["extractor"])
			return nil
		},
	}
}

func printHistory(out io.Writer, list *historyList) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tSTATUS\tFORMAT\tTITLE\tURL")
	for _, e := range list.Entries {
		title := e.Title
		if e.Error != "" {
			title = e.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Action,
			e.Status,
			e.FormatID,
			truncate(title, 40),
			truncate(e.URL, 50))
	}
	return w.Flush()
}

func formatDuration(seconds float64) string {
	s := int(seconds + 0.5)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s%3600/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncate shortens s to maxLen characters, cutting on a rune boundary
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
