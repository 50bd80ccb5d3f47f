package naming

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
)

var reNumbered = regexp.MustCompile(`^(.*?)-(\d+)$`)

// Lister lists object names under a prefix in remote storage.
type Lister interface {
	List(ctx context.Context, prefix string, limit int) ([]string, error)
}

// Resolver picks a base name whose remote folder is still empty.
type Resolver struct {
	lister Lister
	root   string
	logger logger.Logger
}

// New creates a Resolver probing {root}/{name}/ prefixes
func New(lister Lister, root string, log logger.Logger) *Resolver {
	return &Resolver{lister: lister, root: root, logger: log}
}

// Folder is the remote folder of a base name.
func Folder(root, baseName string) string {
	return fmt.Sprintf("%s/%s/", root, baseName)
}

// Resolve returns desired if its folder is unused. Otherwise it probes
// {prefix}-{n+1} upward when desired already ends in -{n}, or {desired}-1
// upward, and returns the first unused candidate.
func (r *Resolver) Resolve(ctx context.Context, desired string) (string, error) {
	used, err := r.used(ctx, desired)
	if err != nil {
		return "", err
	}
	if !used {
		return desired, nil
	}

	prefix, index := desired, 1
	if m := reNumbered.FindStringSubmatch(desired); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			prefix, index = m[1], n+1
		}
	}

	for {
		candidate := fmt.Sprintf("%s-%d", prefix, index)
		used, err := r.used(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			r.logger.Info(ctx, "Base name %q already in use, using %q", desired, candidate)
			return candidate, nil
		}
		index++
	}
}

func (r *Resolver) used(ctx context.Context, baseName string) (bool, error) {
	names, err := r.lister.List(ctx, Folder(r.root, baseName), 1)
	if err != nil {
		return false, fmt.Errorf("probe base name %q: %w", baseName, err)
	}
	return len(names) > 0, nil
}
