package token

// LookupKeyword returns the keyword kind for ident.
// Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := fixed[ident]
	if !ok || !k.IsKeyword() {
		return Invalid, false
	}
	return k, true
}
