package vmx

import (
	"regexp"
	"strings"

	"github.com/yndnr/hbr-recover/internal/core/domain"
)

// Rewriter defaults.
const (
	DefaultFilterMarker = "hbr_filter"
	DefaultEmptyBacking = "emptyBackingString"
)

var (
	cdromFileName   = regexp.MustCompile(`^(sata0:\d+)\.fileName\s*=\s*".*"$`)
	ethernetDevice  = regexp.MustCompile(`^ethernet(\d+)\.virtualDev\s*=\s*".*"$`)
	ethernetConnect = regexp.MustCompile(`^ethernet(\d+)\.startConnected\s*=`)
)

// Rewriter produces a machine config usable at the replica site.
type Rewriter struct {
	filterMarker string
	emptyBacking string
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithFilterMarker sets the substring identifying replication filter lines.
func WithFilterMarker(marker string) Option {
	return func(r *Rewriter) {
		if marker != "" {
			r.filterMarker = marker
		}
	}
}

// WithEmptyBacking sets the CD-ROM backing value used at the replica site.
func WithEmptyBacking(backing string) Option {
	return func(r *Rewriter) {
		if backing != "" {
			r.emptyBacking = backing
		}
	}
}

// NewRewriter creates a Rewriter.
func NewRewriter(opts ...Option) *Rewriter {
	r := &Rewriter{
		filterMarker: DefaultFilterMarker,
		emptyBacking: DefaultEmptyBacking,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite returns the corrected config text for lines with disks attached.
func (r *Rewriter) Rewrite(lines []string, disks []domain.DiskRef) string {
	return JoinLines(r.RewriteLines(lines, disks))
}

// RewriteLines applies, per line and in order:
//
//  1. drop replication filter lines and uuid.location
//  2. point sata0:<n>.fileName at an empty backing unless sata0:<n> is a disk
//  3. point <node>.fileName of each disk at the disk's file name
//  4. force ethernet<n>.startConnected to "FALSE"
//  5. pass the line through; after ethernet<n>.virtualDev, add
//     ethernet<n>.startConnected = "FALSE" unless the adapter already has one
//
// Each line produces at most one output line plus the ethernet addition.
// Rewriting the output again with the same disks yields the same lines.
func (r *Rewriter) RewriteLines(lines []string, disks []domain.DiskRef) []string {
	diskNodes := make(map[string]bool, len(disks))
	for _, d := range disks {
		diskNodes[d.Node] = true
	}

	hasConnect := make(map[string]bool)
	for _, line := range lines {
		if m := ethernetConnect.FindStringSubmatch(line); m != nil {
			hasConnect[m[1]] = true
		}
	}

	out := make([]string, 0, len(lines)+4)
	for _, line := range lines {
		if strings.Contains(line, r.filterMarker) || strings.HasPrefix(line, KeyUUIDLocation) {
			continue
		}

		if m := cdromFileName.FindStringSubmatch(line); m != nil && !diskNodes[m[1]] {
			out = append(out, Line(m[1]+".fileName", r.emptyBacking))
			continue
		}

		if d, ok := diskFor(line, disks); ok {
			out = append(out, Line(d.Node+".fileName", d.Filename))
			continue
		}

		if m := ethernetConnect.FindStringSubmatch(line); m != nil {
			out = append(out, Line("ethernet"+m[1]+".startConnected", "FALSE"))
			continue
		}

		out = append(out, line)

		if m := ethernetDevice.FindStringSubmatch(line); m != nil && !hasConnect[m[1]] {
			out = append(out, Line("ethernet"+m[1]+".startConnected", "FALSE"))
		}
	}
	return out
}

// diskFor returns the first disk whose <node>.fileName key starts line.
func diskFor(line string, disks []domain.DiskRef) (domain.DiskRef, bool) {
	for _, d := range disks {
		if d.Node != "" && strings.HasPrefix(line, d.Node+".fileName") {
			return d, true
		}
	}
	return domain.DiskRef{}, false
}
