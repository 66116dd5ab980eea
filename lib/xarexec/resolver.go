// Copyright 2026 The XAR Authors
// SPDX-License-Identifier: Apache-2.0

package xarexec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/facebookincubator/xar/lib/platform"
	"github.com/facebookincubator/xar/lib/xarparser"
)

// MountDescriptor is the deterministic derivation of where a XAR
// mounts. It is computed fresh on every invocation; nothing here is
// persisted beyond what can be recomputed from the header and the
// environment.
type MountDescriptor struct {
	// EffectiveUID namespaces the per-user base directory.
	EffectiveUID int

	// MountRoot is the chosen world-writable-sticky root.
	MountRoot string

	// UserBaseDir is MountRoot/uid-<euid>.
	UserBaseDir string

	// MountName is the final mount directory name: the archive UUID
	// plus seed and namespace disambiguators.
	MountName string

	// MountPath is UserBaseDir/MountName.
	MountPath string

	// LockfilePath is UserBaseDir/lockfile.<MountName>.
	LockfilePath string
}

// Resolver derives mount descriptors. The zero value is not usable;
// call NewResolver, which captures process identity and the standard
// namespace marker locations, then override fields in tests as needed.
type Resolver struct {
	// EffectiveUID and EffectiveGID of the running process.
	EffectiveUID int
	EffectiveGID int

	// Seed disambiguates mount paths for repeated runs that share a
	// mount namespace. Usually XAR_MOUNT_SEED. Values containing a
	// path separator are ignored.
	Seed string

	// MountRoots are the candidate roots tried when the header carries
	// no MOUNT_ROOT override.
	MountRoots []string

	// Namespace marker files. Mount-table entries in different
	// namespaces can alias; the marker inodes keep the mount directory
	// names distinct.
	PIDNamespaceFile   string
	MountNamespaceFile string
	CgroupFile         string
}

// NewResolver returns a Resolver for the current process and
// environment.
func NewResolver() *Resolver {
	return &Resolver{
		EffectiveUID:       os.Geteuid(),
		EffectiveGID:       os.Getegid(),
		Seed:               os.Getenv("XAR_MOUNT_SEED"),
		MountRoots:         platform.DefaultMountRoots(),
		PIDNamespaceFile:   "/proc/self/ns/pid",
		MountNamespaceFile: "/proc/self/ns/mnt",
		CgroupFile:         "/proc/self/cgroup",
	}
}

// Resolve computes the mount descriptor for header. It creates the
// per-user base directory on demand and sanity-checks it; everything
// else is pure derivation.
func (r *Resolver) Resolve(header xarparser.Header) (*MountDescriptor, error) {
	if header.UUID == "" {
		return nil, errors.New("uuid must be non-empty")
	}
	if !isHexString(header.UUID) {
		return nil, errors.New("uuid must only contain hex digits")
	}

	root, err := r.chooseMountRoot(header.MountRoot)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Join(root, fmt.Sprintf("uid-%d", r.EffectiveUID))
	// Ignore mkdir failure; a racing invocation may have won, and the
	// sanity check catches everything else.
	_ = os.Mkdir(baseDir, 0o755)
	_ = platform.FixupOwnership(baseDir)
	if err := checkFileSanity(baseDir, expectDirectory, 0o755); err != nil {
		return nil, err
	}

	name := header.UUID + r.disambiguator()

	return &MountDescriptor{
		EffectiveUID: r.EffectiveUID,
		MountRoot:    root,
		UserBaseDir:  baseDir,
		MountName:    name,
		MountPath:    filepath.Join(baseDir, name),
		LockfilePath: filepath.Join(baseDir, "lockfile."+name),
	}, nil
}

// chooseMountRoot picks the header override when present, else the
// first candidate root with permission bits exactly 01777. The chosen
// root must itself be 01777.
func (r *Resolver) chooseMountRoot(override string) (string, error) {
	root := override
	if root == "" {
		for _, candidate := range r.MountRoots {
			var stat unix.Stat_t
			if err := unix.Stat(candidate, &stat); err != nil {
				continue
			}
			if stat.Mode&0o7777 == 0o1777 {
				root = candidate
				break
			}
		}
		if root == "" {
			return "", errors.New(platform.NoMountRootsHelp())
		}
	}

	var stat unix.Stat_t
	if err := unix.Stat(root, &stat); err != nil {
		return "", fmt.Errorf("failed to stat mount root %q: %w", root, err)
	}
	if stat.Mode&0o7777 != 0o1777 {
		return "", fmt.Errorf("mount root %q permissions should be 01777", root)
	}
	return root, nil
}

// disambiguator builds the seed and namespace suffixes of the mount
// directory name. An explicit seed wins; otherwise the pid-namespace
// and cgroup inodes stand in, because the kernel aggressively reuses
// namespace ids across sequential jobs while cgroup termination can
// tear down a squashfuse process shared across cgroups. The mount
// namespace inode is always appended when resolvable so that shared
// mtabs stay unambiguous across namespaces.
func (r *Resolver) disambiguator() string {
	var suffix strings.Builder
	if r.Seed != "" && !strings.ContainsRune(r.Seed, os.PathSeparator) {
		suffix.WriteString("-seed-")
		suffix.WriteString(r.Seed)
	} else if inode, ok := platform.NamespaceInode(r.PIDNamespaceFile); ok {
		fmt.Fprintf(&suffix, "-seed-nspid%d", inode)
		if cgroupInode, ok := platform.CgroupInode(r.CgroupFile); ok {
			fmt.Fprintf(&suffix, "_cgpid%d", cgroupInode)
		}
	}
	if inode, ok := platform.NamespaceInode(r.MountNamespaceFile); ok {
		fmt.Fprintf(&suffix, "-ns-%d", inode)
	}
	return suffix.String()
}

func isHexString(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
