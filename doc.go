// Package wsdlgen derives WSDL 1.1 descriptions with a SOAP 1.1
// document/literal binding from XML Schema documents.
//
// Every top-level schema element whose name ends with the request, response
// or fault suffix becomes a message. Messages sharing a name stem form one
// operation of a single port type, which is bound over SOAP HTTP and exposed
// by one service port:
//
//	schema, err := wsdlgen.OpenResource(fsys, "orders.xsd")
//	if err != nil {
//		return err
//	}
//	opts := wsdlgen.NewBuildOptions().
//		WithSchema(schema).
//		WithPortTypeName("Orders").
//		WithTargetNamespace("http://example.com/orders/definitions").
//		WithLocationURI("http://localhost:8080/orders")
//	builder, err := wsdlgen.NewBuilder(opts)
//	if err != nil {
//		return err
//	}
//	if err := builder.Build(ctx); err != nil {
//		return err
//	}
//	def, err := builder.Definition()
//
// The schema is embedded in the types section unless a schema location is
// set, in which case the types section imports it from there. Includes and
// imports are resolved and inlined only when WithFollowIncludeImport is on.
package wsdlgen
