// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/nativesso/oidc"
	"github.com/hashicorp/nativesso/oidc/pending"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nativesso",
		Short:         "Build native SSO token exchange and logout requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLogoutURLCmd(), newRestoreLogoutCmd(), newForgetLogoutCmd(), newExchangeCmd())
	return root
}

func newLogoutURLCmd() *cobra.Command {
	var idToken, deviceSecret, state string
	var noState bool
	cmd := &cobra.Command{
		Use:   "logout-url",
		Short: "Build a logout url and save it as the pending logout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadEnvConfig()
			if err != nil {
				return err
			}
			logger := cfg.logger()
			c, err := cfg.oidcConfig(logger)
			if err != nil {
				return err
			}
			pc, err := cfg.providerConfig(cmd.Context(), c)
			if err != nil {
				return err
			}
			b, err := oidc.NewLogoutBuilder(oidc.WithLogger(logger))
			if err != nil {
				return err
			}
			b.FromProviderConfig(pc).FromConfig(c).IDTokenHint(idToken)
			if deviceSecret != "" {
				b.DeviceSecret(deviceSecret)
			}
			switch {
			case noState:
				b.NoState()
			case state != "":
				b.State(state)
			}
			r, err := b.Build()
			if err != nil {
				return err
			}

			s, err := pending.OpenBoltStore(cfg.StateDB)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := pending.SaveLogout(cmd.Context(), s, r); err != nil {
				return err
			}
			return printLogoutURL(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "id_token to send as the id_token_hint")
	cmd.Flags().StringVar(&deviceSecret, "device-secret", "", "optional device_secret")
	cmd.Flags().StringVar(&state, "state", "", "state to send instead of a generated one")
	cmd.Flags().BoolVar(&noState, "no-state", false, "don't send a state")
	_ = cmd.MarkFlagRequired("id-token")
	return cmd
}

func newRestoreLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore-logout",
		Short: "Print the pending logout url",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStateDB()
			if err != nil {
				return err
			}
			defer s.Close()
			r, err := pending.RestoreLogout(cmd.Context(), s)
			if err != nil {
				return err
			}
			return printLogoutURL(cmd.OutOrStdout(), r)
		},
	}
}

func newForgetLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget-logout",
		Short: "Discard the pending logout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStateDB()
			if err != nil {
				return err
			}
			defer s.Close()
			return pending.ForgetLogout(cmd.Context(), s)
		},
	}
}

func newExchangeCmd() *cobra.Command {
	var idToken, deviceSecret, grantType string
	var requireTokens bool
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Print the token exchange request for a device secret and id_token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadEnvConfig()
			if err != nil {
				return err
			}
			logger := cfg.logger()
			c, err := cfg.oidcConfig(logger)
			if err != nil {
				return err
			}
			pc, err := cfg.providerConfig(cmd.Context(), c)
			if err != nil {
				return err
			}
			var opts []oidc.Option
			if requireTokens {
				opts = append(opts, oidc.WithRequireTokens())
			}
			r, err := oidc.NewTokenExchangeRequest(c, pc, deviceSecret, idToken, grantType, opts...)
			if err != nil {
				return err
			}
			return printTokenExchange(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "id_token to send as the subject_token")
	cmd.Flags().StringVar(&deviceSecret, "device-secret", "", "device_secret to send as the actor_token")
	cmd.Flags().StringVar(&grantType, "grant-type", oidc.GrantTypeTokenExchange, "grant_type to request")
	cmd.Flags().BoolVar(&requireTokens, "require-tokens", false, "fail when either token is empty")
	return cmd
}

func openStateDB() (*pending.BoltStore, error) {
	cfg, err := loadEnvConfig()
	if err != nil {
		return nil, err
	}
	return pending.OpenBoltStore(cfg.StateDB)
}

func printLogoutURL(w io.Writer, r *oidc.LogoutRequest) error {
	u, err := r.RedirectURL()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, u.String())
	return err
}

func printTokenExchange(w io.Writer, r *oidc.TokenExchangeRequest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.Method(), r.URL())
	h := r.Header()
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(&b, "Content-Type: %s\n\n%s\n", oidc.ContentTypeForm, r.Body())
	_, err := io.WriteString(w, b.String())
	return err
}
