// Package coreerr defines the small typed-error shape shared by every
// engine's input-validation boundary (spec.md §7: "a typed validation
// error naming the offending field"). It is intentionally tiny and
// standard-library only — see DESIGN.md for why no third-party error
// library from the example pack was a better fit for two exported
// fields and an Error() method.
package coreerr
