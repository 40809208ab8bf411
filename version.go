package ktb

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// MinVersion is the oldest ktlint version the plugin can drive.
const MinVersion = "0.22.0"

// Capability names an optional ktlint behavior gated by version.
type Capability string

const (
	// CapExperimentalRules enables ktlint's experimental rule set.
	CapExperimentalRules Capability = "experimental-rules"
	// CapDisabledRules allows turning individual rules off.
	CapDisabledRules Capability = "disabled-rules"
	// CapBaseline allows tolerating a recorded set of violations.
	CapBaseline Capability = "baseline"
	// CapMavenCoordinates marks the move of the ktlint distribution from
	// the shyiko to the pinterest coordinates.
	CapMavenCoordinates Capability = "maven-central-coordinates"
)

// CapabilityTable maps capabilities to the minimum version providing them.
type CapabilityTable map[Capability]string

// DefaultCapabilities returns the stock capability floors.
func DefaultCapabilities() CapabilityTable {
	return CapabilityTable{
		CapExperimentalRules: "0.31.0",
		CapMavenCoordinates:  "0.32.0",
		CapDisabledRules:     "0.34.2",
		CapBaseline:          "0.41.0",
	}
}

// capabilityPhrases lead the UnsupportedCapabilityError messages.
var capabilityPhrases = map[Capability]string{
	CapExperimentalRules: "Experimental rules are",
	CapDisabledRules:     "Rules disabling is",
	CapBaseline:          "Baseline is",
}

// Version is a parsed ktlint version.
type Version struct {
	Raw   string
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a MAJOR.MINOR.PATCH version string.
func ParseVersion(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid ktlint version %q: want MAJOR.MINOR.PATCH", raw)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid ktlint version %q: want MAJOR.MINOR.PATCH", raw)
		}
		nums[i] = n
	}
	return Version{Raw: s, Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return v.Raw
}

func (v Version) canonical() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders v against w, returning -1, 0, or +1.
func (v Version) Compare(w Version) int {
	return semver.Compare(v.canonical(), w.canonical())
}

// AtLeast reports whether v is at or above the given MAJOR.MINOR.PATCH floor.
func (v Version) AtLeast(floor string) bool {
	return semver.Compare(v.canonical(), "v"+floor) >= 0
}

// UnsupportedVersionError reports a configured version below the supported
// floor.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("ktlint version %s is not supported, the minimum is %s", e.Version, MinVersion)
}

// UnsupportedCapabilityError reports a capability requested at a version
// below its floor. The message names the floor version.
type UnsupportedCapabilityError struct {
	Capability Capability
	Version    string
	Floor      string
}

func (e *UnsupportedCapabilityError) Error() string {
	phrase, ok := capabilityPhrases[e.Capability]
	if !ok {
		phrase = string(e.Capability) + " is"
	}
	return fmt.Sprintf("%s supported since %s ktlint version.", phrase, e.Floor)
}

// Artifact identifies the downloadable ktlint distribution for a version.
type Artifact struct {
	Owner string
	Repo  string
	Tag   string
	Asset string
}

// DownloadURL returns the GitHub release asset URL for the artifact.
func (a Artifact) DownloadURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/download/%s/%s", a.Owner, a.Repo, a.Tag, a.Asset)
}

// Resolution is the outcome of resolving a version: where to fetch the
// distribution and which gated behaviors it provides.
type Resolution struct {
	Version      Version
	Artifact     Artifact
	Capabilities []Capability
}

// Enabled reports whether the resolved version provides c.
func (r Resolution) Enabled(c Capability) bool {
	return slices.Contains(r.Capabilities, c)
}

// Policy resolves configured ktlint versions against a capability table.
type Policy struct {
	Table CapabilityTable
}

// NewPolicy returns a Policy over the given table, falling back to
// DefaultCapabilities when table is nil.
func NewPolicy(table CapabilityTable) Policy {
	if table == nil {
		table = DefaultCapabilities()
	}
	return Policy{Table: table}
}

// Resolve parses and validates raw, returning the artifact coordinates and
// the capabilities available at that version. wants lists capabilities the
// configuration requires; requesting one below its floor fails with an
// *UnsupportedCapabilityError, and a version below MinVersion fails with an
// *UnsupportedVersionError.
func (p Policy) Resolve(raw string, wants ...Capability) (Resolution, error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return Resolution{}, err
	}
	if !v.AtLeast(MinVersion) {
		return Resolution{}, &UnsupportedVersionError{Version: v.Raw}
	}

	res := Resolution{Version: v}
	for c, floor := range p.Table {
		if v.AtLeast(floor) {
			res.Capabilities = append(res.Capabilities, c)
		}
	}
	slices.Sort(res.Capabilities)

	for _, want := range wants {
		if res.Enabled(want) {
			continue
		}
		floor, ok := p.Table[want]
		if !ok {
			return Resolution{}, fmt.Errorf("unknown ktlint capability %q requested for version %s", want, v.Raw)
		}
		return Resolution{}, &UnsupportedCapabilityError{Capability: want, Version: v.Raw, Floor: floor}
	}

	res.Artifact = artifactFor(v, res.Enabled(CapMavenCoordinates))
	return res, nil
}

// artifactFor selects the distribution coordinates: the legacy shyiko
// releases below the relocation version, the pinterest releases at or above.
func artifactFor(v Version, relocated bool) Artifact {
	owner := "shyiko"
	if relocated {
		owner = "pinterest"
	}
	return Artifact{Owner: owner, Repo: "ktlint", Tag: v.Raw, Asset: "ktlint"}
}
