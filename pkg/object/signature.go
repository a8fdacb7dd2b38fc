package object

// CommitSigningPayload returns the canonical bytes that are signed for a
// commit: the commit text with the signature header omitted.
func CommitSigningPayload(c *CommitObj) []byte {
	if c == nil {
		return nil
	}
	unsigned := *c
	unsigned.Signature = ""
	return MarshalCommit(&unsigned)
}
