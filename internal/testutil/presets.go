package testutil

// WithReferenceScenario adds the three-service scenario:
//
//	s1 [dom1 dom2] <-> s2 [dom3 dom4]
//	s3 [dom5]           (unlinked)
func (b *Builder) WithReferenceScenario() *Builder {
	return b.
		WithService("s1", "dom1", "dom2").
		WithService("s2", "dom3", "dom4").
		WithService("s3", "dom5").
		WithLink("s1", "s2")
}

// WithSharedDomains adds services that share domain keys:
//
//	api [example.com, api.example.com]
//	web [example.com, www.example.com]
//	cdn [static.example.com, example.com]
//
// with links api-web and cdn-api.
func (b *Builder) WithSharedDomains() *Builder {
	return b.
		WithService("api", "example.com", "api.example.com").
		WithService("web", "example.com", "www.example.com").
		WithService("cdn", "static.example.com", "example.com").
		WithLink("api", "web").
		WithLink("cdn", "api")
}
