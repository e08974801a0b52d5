package wsdlgen_test

import (
	"context"
	"fmt"
	"testing/fstest"

	"github.com/jacoelho/wsdlgen"
	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
)

func ExampleNewBuilder() {
	schemaXML := `<?xml version="1.0"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
            targetNamespace="http://example.com/orders/schema"
            elementFormDefault="qualified">
  <xsd:element name="PlaceOrderRequest" type="xsd:string"/>
  <xsd:element name="PlaceOrderResponse" type="xsd:string"/>
</xsd:schema>`

	fsys := fstest.MapFS{
		"orders.xsd": &fstest.MapFile{Data: []byte(schemaXML)},
	}

	schema, err := wsdlgen.OpenResource(fsys, "orders.xsd")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	builder, err := wsdlgen.NewBuilder(wsdlgen.NewBuildOptions().
		WithSchema(schema).
		WithPortTypeName("Orders").
		WithTargetNamespace("http://example.com/orders/definitions").
		WithLocationURI("http://localhost:8080/orders"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if err := builder.Build(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	def, err := builder.Definition()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, op := range def.Model().PortTypes[0].Operations {
		fmt.Printf("%s: %s -> %s\n", op.Name, op.Input.Name, op.Output.Name)
	}
	fmt.Println(def.Model().Services[0].Ports[0].Name)
	// Output:
	// PlaceOrder: PlaceOrderRequest -> PlaceOrderResponse
	// OrdersPort
}

func ExampleDefinition_Bytes() {
	fsys := fstest.MapFS{
		"ping.xsd": &fstest.MapFile{Data: []byte(`<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
  targetNamespace="urn:ping"><xsd:element name="PingRequest" type="xsd:string"/></xsd:schema>`)},
	}
	schema, _ := wsdlgen.OpenResource(fsys, "ping.xsd")
	builder, _ := wsdlgen.NewBuilder(wsdlgen.NewBuildOptions().
		WithSchema(schema).
		WithSchemaLocation("ping.xsd").
		WithPortTypeName("Ping").
		WithTargetNamespace("urn:ping:wsdl").
		WithLocationURI("http://localhost/ping"))
	if err := builder.Build(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	def, _ := builder.Definition()
	out, _ := def.Bytes()
	fmt.Print(string(out))
	// Output:
	// <?xml version="1.0" encoding="UTF-8"?>
	// <wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/" xmlns:schema="urn:ping" xmlns:tns="urn:ping:wsdl" targetNamespace="urn:ping:wsdl">
	//   <wsdl:types>
	//     <xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
	//       <xsd:import namespace="urn:ping" schemaLocation="ping.xsd"/>
	//     </xsd:schema>
	//   </wsdl:types>
	//   <wsdl:message name="PingRequest">
	//     <wsdl:part element="schema:PingRequest" name="PingRequest"/>
	//   </wsdl:message>
	//   <wsdl:portType name="Ping">
	//     <wsdl:operation name="Ping">
	//       <wsdl:input message="tns:PingRequest" name="PingRequest"/>
	//     </wsdl:operation>
	//   </wsdl:portType>
	//   <wsdl:binding name="PingBinding" type="tns:Ping">
	//     <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
	//     <wsdl:operation name="Ping">
	//       <soap:operation soapAction=""/>
	//       <wsdl:input name="PingRequest">
	//         <soap:body use="literal"/>
	//       </wsdl:input>
	//     </wsdl:operation>
	//   </wsdl:binding>
	//   <wsdl:service name="PingService">
	//     <wsdl:port binding="tns:PingBinding" name="PingPort">
	//       <soap:address location="http://localhost/ping"/>
	//     </wsdl:port>
	//   </wsdl:service>
	// </wsdl:definitions>
}

func ExampleOpenResource_missing() {
	_, err := wsdlgen.OpenResource(fstest.MapFS{}, "missing.xsd")
	code, _ := wsdlerrors.CodeOf(err)
	fmt.Println(code, wsdlerrors.IsInput(err))
	// Output: wsdl-schema-not-found true
}
