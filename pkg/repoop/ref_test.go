// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package repoop

import (
	"testing"

	"github.com/archmagece/gitmgr/pkg/manifest"
)

func TestDecideRefPriority(t *testing.T) {
	tests := []struct {
		name string
		plan RepoPlan
		want RemoteRef
	}{
		{
			name: "commit wins over tag and branch",
			plan: RepoPlan{Entry: manifest.RepoEntry{Pin: manifest.Pin{Commit: "deadbeef", Tag: "v1", Branch: "main"}}},
			want: RemoteRef{Kind: RemoteRefCommit, Ref: "deadbeef"},
		},
		{
			name: "tag wins over branch",
			plan: RepoPlan{Entry: manifest.RepoEntry{Pin: manifest.Pin{Tag: "v1", Branch: "main"}}},
			want: RemoteRef{Kind: RemoteRefTag, Ref: "v1"},
		},
		{
			name: "entry branch used directly",
			plan: RepoPlan{Entry: manifest.RepoEntry{Pin: manifest.Pin{Branch: "feature"}}},
			want: RemoteRef{Kind: RemoteRefBranch, Ref: "origin/feature", BranchName: "feature"},
		},
		{
			name: "no pin falls back to default branch",
			plan: RepoPlan{DefaultBranch: "develop"},
			want: RemoteRef{Kind: RemoteRefBranch, Ref: "origin/develop", BranchName: "develop"},
		},
		{
			name: "no pin and no default resolves to none",
			plan: RepoPlan{},
			want: RemoteRef{Kind: RemoteRefNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideRef(tt.plan)
			if got != tt.want {
				t.Errorf("DecideRef() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
