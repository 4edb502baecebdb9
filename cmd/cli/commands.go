package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/and161185/paperless-mirror/internal/api"
	"github.com/and161185/paperless-mirror/internal/auth"
)

// defaultRPCTimeout bounds commands when --timeout is not set. Commands
// annotated with noDeadline run until the server answers.
const (
	defaultRPCTimeout = 2 * time.Minute
	noDeadline        = "pm/no-deadline"
)

type dialFunc func(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error)

type globalOpts struct {
	addr       string
	caPath     string
	skipVerify bool
	plaintext  bool
	token      string
	timeout    time.Duration
	dial       dialFunc
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newRootCmd builds the command tree. A nil dial uses grpc.NewClient.
func newRootCmd(dial dialFunc) *cobra.Command {
	if dial == nil {
		dial = grpc.NewClient
	}
	o := &globalOpts{dial: dial}

	root := &cobra.Command{
		Use:           "pm",
		Short:         "paperless-mirror CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.addr, "addr", envOr("PM_ADDR", "localhost:8443"), "server addr")
	pf.StringVar(&o.caPath, "cacert", os.Getenv("PM_CACERT"), "CA cert (PEM)")
	pf.BoolVar(&o.skipVerify, "insecure", false, "skip cert verify (dev)")
	pf.BoolVar(&o.plaintext, "plaintext", false, "connect without TLS (dev)")
	pf.StringVar(&o.token, "token", os.Getenv("PM_TOKEN"), "bearer token (default: saved token)")
	pf.DurationVar(&o.timeout, "timeout", 0, "per-command deadline (default 2m; sync has none)")

	root.AddCommand(
		versionCmd(),
		tokenCmd(),
		instanceCmd(o),
		syncCmd(o),
		historyCmd(o),
		resultCmd(o),
	)
	return root
}

// withClient dials the server with the resolved bearer token and runs fn.
func withClient(cmd *cobra.Command, o *globalOpts, fn func(ctx context.Context, cl *api.MirrorClient) error) error {
	tok := o.token
	if tok == "" {
		var err error
		if tok, err = loadToken(); err != nil {
			return err
		}
	}
	opts, err := dialOptions(o, tok)
	if err != nil {
		return err
	}
	cc, err := o.dial(o.addr, opts...)
	if err != nil {
		return err
	}
	defer cc.Close()

	ctx := cmd.Context()
	if d := o.deadline(cmd); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return fn(ctx, api.NewMirrorClient(cc))
}

// deadline returns the explicit --timeout, else the command's default. Zero means none.
func (o *globalOpts) deadline(cmd *cobra.Command) time.Duration {
	if o.timeout > 0 {
		return o.timeout
	}
	if cmd.Annotations[noDeadline] != "" {
		return 0
	}
	return defaultRPCTimeout
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pm %s (%s)\n", version, buildDate)
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "token", Short: "Manage bearer tokens"}

	var key, subject string
	var ttl time.Duration
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token with the server key and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if key == "" {
				return errors.New("need --key or PM_JWT_KEY")
			}
			tok, exp, err := auth.Issue([]byte(key), subject, ttl, time.Now())
			if err != nil {
				return err
			}
			if err := saveToken(tok, exp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok, expires %s\n", exp.UTC().Format(time.RFC3339))
			return nil
		},
	}
	issue.Flags().StringVar(&key, "key", os.Getenv("PM_JWT_KEY"), "HS256 signing key")
	issue.Flags().StringVar(&subject, "subject", "cli", "token subject")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	cmd.AddCommand(issue)
	return cmd
}

func instanceCmd(o *globalOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "instance", Short: "Manage remote instances"}

	var name, baseURL, apiToken string
	var filter []int
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a remote instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" || baseURL == "" || apiToken == "" {
				return errors.New("need --name, --url and --api-token (or PAPERLESS_API_TOKEN)")
			}
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				out, err := cl.RegisterInstance(ctx, &api.RegisterInstanceRequest{
					Name: name, BaseURL: baseURL, APIToken: apiToken, ImportFilterTags: filter,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out.Instance)
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "instance name")
	add.Flags().StringVar(&baseURL, "url", "", "remote base URL")
	add.Flags().StringVar(&apiToken, "api-token", os.Getenv("PAPERLESS_API_TOKEN"), "remote API token")
	add.Flags().IntSliceVar(&filter, "filter-tags", nil, "import only documents carrying all these tag ids")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				out, err := cl.ListInstances(ctx, &api.ListInstancesRequest{})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out.Instances)
			})
		},
	}

	var tags []int
	filterCmd := &cobra.Command{
		Use:   "filter INSTANCE_ID",
		Short: "Replace the import filter tags of an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				if _, err := cl.SetFilterTags(ctx, &api.SetFilterTagsRequest{InstanceID: args[0], Tags: tags}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
	filterCmd.Flags().IntSliceVar(&tags, "tags", nil, "tag ids (empty clears the filter)")

	probe := &cobra.Command{
		Use:   "probe INSTANCE_ID",
		Short: "Check connectivity and print the remote tag catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				out, err := cl.ProbeInstance(ctx, &api.ProbeInstanceRequest{InstanceID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out.Tags)
			})
		},
	}

	cmd.AddCommand(add, list, filterCmd, probe)
	return cmd
}

func syncCmd(o *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:         "sync INSTANCE_ID",
		Short:       "Mirror the remote document corpus of an instance",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{noDeadline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				out, err := cl.SyncDocuments(ctx, &api.SyncDocumentsRequest{InstanceID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}

func historyCmd(o *globalOpts) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history INSTANCE_ID",
		Short: "Show recent sync runs of an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				out, err := cl.ListHistory(ctx, &api.ListHistoryRequest{InstanceID: args[0], Limit: limit})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out.Runs)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max runs (0 = server default)")
	return cmd
}

func resultCmd(o *globalOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "result", Short: "Submit and read AI processing results"}

	var file string
	submit := &cobra.Command{
		Use:   "submit DOCUMENT_ID",
		Short: "Store a changes payload for a mirrored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readAll(file)
			if err != nil {
				return err
			}
			if !json.Valid(data) {
				return errors.New("payload is not valid JSON")
			}
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				out, err := cl.SubmitResult(ctx, &api.SubmitResultRequest{DocumentID: args[0], Changes: data})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	submit.Flags().StringVar(&file, "file", "-", "changes JSON file ('-'=stdin)")

	get := &cobra.Command{
		Use:   "get DOCUMENT_ID",
		Short: "Show the latest result with reconciled tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, o, func(ctx context.Context, cl *api.MirrorClient) error {
				out, err := cl.GetResult(ctx, &api.GetResultRequest{DocumentID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.AddCommand(submit, get)
	return cmd
}
