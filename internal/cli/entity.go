/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/activerecord"
	"github.com/suparena/activerecord/datastore/testmodels"
	"github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

// entityStore drives the sample EntityRecord; recordctl is a demo of the
// library, not a generic record editor.
type entityStore = activerecord.Store[testmodels.EntityRecord, *testmodels.EntityRecord]

// entityFlags are the editable EntityRecord fields.
type entityFlags struct {
	cnes, cap                string
	name, endpoint, provider string
	username, password       string
	systemName, systemVer    string
	status                   string
}

// NewEntityCommand creates the entity command group.
func NewEntityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Manage health facility entities",
	}

	cmd.AddCommand(newEntityGetCommand(rootOpts))
	cmd.AddCommand(newEntitySaveCommand(rootOpts))
	cmd.AddCommand(newEntityDeleteCommand(rootOpts))
	cmd.AddCommand(newEntityListCommand(rootOpts))

	return cmd
}

func addKeyFlags(cmd *cobra.Command, f *entityFlags) {
	cmd.Flags().StringVar(&f.cnes, "cnes", "", "CNES code (primary key)")
	cmd.Flags().StringVar(&f.cap, "cap", "", "CAP region (secondary key)")
	_ = cmd.MarkFlagRequired("cnes")
	_ = cmd.MarkFlagRequired("cap")
}

// record returns an entity holding only the key flags.
func (f *entityFlags) record() (*testmodels.EntityRecord, error) {
	if f.cnes == "" || f.cap == "" {
		return nil, stderrors.New("--cnes and --cap must not be empty")
	}
	return &testmodels.EntityRecord{Cnes: f.cnes, Cap: f.cap}, nil
}

// withEntities opens storage, runs fn and closes storage again.
func withEntities(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, store *entityStore) error) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	store, err := activerecord.NewStore[testmodels.EntityRecord](s.provider,
		activerecord.WithLogger(s.log),
		activerecord.WithMetrics(s.metrics),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()
	return fn(ctx, store)
}

func show(cmd *cobra.Command, opts *RootOptions, store *entityStore, rec *testmodels.EntityRecord) error {
	attrs, _ := store.Mapper().ToAttributes(rec)
	return printRecord(cmd.OutOrStdout(), opts.Format, attrs)
}

func newEntityGetCommand(rootOpts *RootOptions) *cobra.Command {
	f := &entityFlags{}
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch one entity by key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEntities(rootOpts, cmd, func(ctx context.Context, store *entityStore) error {
				rec, err := f.record()
				if err != nil {
					return err
				}
				if st := store.Fetch(rec).Await(ctx); st.Err != nil {
					return st.Err
				}
				return show(cmd, rootOpts, store, rec)
			})
		},
	}
	addKeyFlags(cmd, f)
	return cmd
}

func newEntitySaveCommand(rootOpts *RootOptions) *cobra.Command {
	f := &entityFlags{}
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create an entity or update the given fields of an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEntities(rootOpts, cmd, func(ctx context.Context, store *entityStore) error {
				rec, err := f.record()
				if err != nil {
					return err
				}
				if st := store.Fetch(rec).Await(ctx); st.Err != nil && !isNotFound(st.Err) {
					return st.Err
				}
				if err := f.apply(cmd, rec); err != nil {
					return err
				}
				if st := store.Save(rec).Await(ctx); st.Err != nil {
					return st.Err
				}
				return show(cmd, rootOpts, store, rec)
			})
		},
	}
	addKeyFlags(cmd, f)
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "service endpoint")
	cmd.Flags().StringVar(&f.provider, "provider-name", "", "software provider")
	cmd.Flags().StringVar(&f.username, "username", "", "service username")
	cmd.Flags().StringVar(&f.password, "password", "", "service password")
	cmd.Flags().StringVar(&f.systemName, "system-name", "", "system name")
	cmd.Flags().StringVar(&f.systemVer, "system-version", "", "system version")
	cmd.Flags().StringVar(&f.status, "status", "", fmt.Sprintf("status %v", testmodels.EntityStatuses.Names()))
	return cmd
}

// apply copies the flags that were set onto rec.
func (f *entityFlags) apply(cmd *cobra.Command, rec *testmodels.EntityRecord) error {
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("name", &rec.Name, f.name)
	set("endpoint", &rec.Endpoint, f.endpoint)
	set("provider-name", &rec.ProviderName, f.provider)
	set("username", &rec.Username, f.username)
	set("password", &rec.Password, f.password)

	if cmd.Flags().Changed("system-name") || cmd.Flags().Changed("system-version") {
		if rec.System == nil {
			rec.System = &testmodels.SystemInfo{}
		}
		set("system-name", &rec.System.Name, f.systemName)
		set("system-version", &rec.System.Version, f.systemVer)
	}

	if cmd.Flags().Changed("status") {
		status, err := testmodels.EntityStatuses.ValueOf(f.status)
		if err != nil {
			return err
		}
		rec.Status = status
	}
	return nil
}

func newEntityDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	f := &entityFlags{}
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one entity by key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEntities(rootOpts, cmd, func(ctx context.Context, store *entityStore) error {
				rec, err := f.record()
				if err != nil {
					return err
				}
				if st := store.Fetch(rec).Await(ctx); st.Err != nil {
					return st.Err
				}
				if st := store.Delete(rec).Await(ctx); st.Err != nil {
					return st.Err
				}
				return show(cmd, rootOpts, store, rec)
			})
		},
	}
	addKeyFlags(cmd, f)
	return cmd
}

func newEntityListCommand(rootOpts *RootOptions) *cobra.Command {
	var where []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities, optionally filtered",
		Long: `List entities. Each --where narrows the result:

  name=Rio      equals            name<>Rio    not equals
  beds>=10      > >= < <= also    name^=Ri     begins with
  name~=io      contains          system?      attribute exists
  !system       attribute missing name='42'    quoted means string`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conds := make([]storagemodels.Condition, 0, len(where))
			for _, w := range where {
				c, err := parseWhere(w)
				if err != nil {
					return err
				}
				conds = append(conds, c)
			}

			return withEntities(rootOpts, cmd, func(ctx context.Context, store *entityStore) error {
				st := store.Query().Where(conds...).Results().Await(ctx)
				if st.Err != nil {
					return st.Err
				}
				all := make([]*storagemodels.Attributes, 0, len(st.Records))
				for _, rec := range st.Records {
					attrs, _ := store.Mapper().ToAttributes(rec)
					all = append(all, attrs)
				}
				return printRecords(cmd.OutOrStdout(), rootOpts.Format, all)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "filter expression, repeatable")
	return cmd
}

func isNotFound(err error) bool {
	var e *errors.Error
	return stderrors.As(err, &e) && e.Type == errors.ResourceNotFound
}
