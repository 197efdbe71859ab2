package ast

// RenameMode records which rename operation, if any, has been applied to an
// Identifier (spec.md §3 "Identifier and renaming").
type RenameMode uint8

const (
	Unchanged RenameMode = iota
	Renamed
	Obfuscated
)

// Identifier stores a declaration's original name plus whatever renaming a
// pass has applied. The rendered form is always `Prefix + OriginalName`
// (or, once Obfuscated, `_<counter>` with no prefix) — computing it is
// idempotent, satisfying spec.md §8 invariant 3 (identifier roundtrip).
type Identifier struct {
	OriginalName string
	Prefix       string
	Mode         RenameMode
	counter      int // obfuscated counter, valid when Mode == Obfuscated
	renameTo     string
}

// NewIdentifier constructs an unchanged identifier.
func NewIdentifier(name string) Identifier {
	return Identifier{OriginalName: name, Mode: Unchanged}
}

// AppendPrefix prepends p to whatever prefix is already set. Repeated calls
// accumulate (a decl renamed by both the reserved-word pass and the
// namespace pass ends up with both prefixes, the most recently applied one
// first).
func (id *Identifier) AppendPrefix(p string) {
	id.Prefix = p + id.Prefix
	if id.Mode == Unchanged {
		id.Mode = Renamed
	}
}

// RenameObfuscated assigns the identifier a `_<counter>` rendered form,
// discarding any prefix (obfuscation always wins).
func (id *Identifier) RenameObfuscated(counter int) {
	id.Mode = Obfuscated
	id.counter = counter
	id.Prefix = ""
	id.renameTo = ""
}

// RenameTo replaces the rendered name outright (used by C10's
// disambiguation suffixes and explicit user renames).
func (id *Identifier) RenameTo(name string) {
	id.Mode = Renamed
	id.renameTo = name
	id.Prefix = ""
}

// Rendered returns the final name to print. Calling it twice in a row
// without an intervening rename call always returns the same string
// (spec.md §8 invariant 3: "re-rendering is idempotent").
func (id Identifier) Rendered() string {
	switch id.Mode {
	case Obfuscated:
		return obfuscatedName(id.counter)
	case Renamed:
		if id.renameTo != "" {
			return id.renameTo
		}
		return id.Prefix + id.OriginalName
	default:
		return id.OriginalName
	}
}

func obfuscatedName(counter int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	if counter < len(alphabet) {
		return "_" + string(alphabet[counter])
	}
	// Once the single-character budget is exhausted, spell counter in base
	// len(alphabet) with the same alphabet (53 -> "_ba"); still
	// stable/idempotent since counter never changes once assigned.
	digits := []byte{}
	n := counter
	for n > 0 {
		digits = append([]byte{alphabet[n%len(alphabet)]}, digits...)
		n /= len(alphabet)
	}
	return "_" + string(digits)
}

// ManglingSettings carries every prefix and toggle the renaming passes
// consult (spec.md §3/§6 "Name-mangling").
type ManglingSettings struct {
	InputPrefix       string
	OutputPrefix      string
	TemporaryPrefix   string
	ReservedWordPrefix string
	NamespacePrefix   string
	UseAlwaysSemantics bool
	RenameBufferFields bool
}

// DefaultManglingSettings matches the short underscored-identifier defaults
// spec.md §6 describes.
func DefaultManglingSettings() ManglingSettings {
	return ManglingSettings{
		InputPrefix:        "_in_",
		OutputPrefix:       "_out_",
		TemporaryPrefix:    "_tmp_",
		ReservedWordPrefix: "xsp_",
		NamespacePrefix:    "xsp_",
		UseAlwaysSemantics: false,
		RenameBufferFields: false,
	}
}
