package converters

func registerBuiltins(r *Registry) {
	registerNumeric(r)
	registerText(r)
	registerDateTime(r)
	registerStreams(r)
	registerDocuments(r)
}
