// Package edit keeps previously computed token positions usable while a
// document is being edited.
//
// Edits are expressed purely in lengths (TextEdit) or with their replacement
// text (Change). A Mapper translates offsets of the edited document back to
// the original one, Anchors move a set of token starts across edits and drop
// the ones whose text was replaced, and Document ties both to the text.
package edit
