package goutil

func String(s string) *string {
	return &s
}

func Bool(b bool) *bool {
	return &b
}
