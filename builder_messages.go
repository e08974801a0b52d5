package wsdlgen

import (
	"encoding/xml"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/jacoelho/wsdlgen/internal/schemaload"
	"github.com/jacoelho/wsdlgen/wsdl"
)

type messageKind uint8

const (
	requestMessage messageKind = iota
	responseMessage
	faultMessage
)

type classifiedMessage struct {
	message   *wsdl.Message
	operation string
	kind      messageKind
}

type suffixRule struct {
	suffix string
	kind   messageKind
}

// suffixRules orders the message suffixes longest first so that a suffix
// which ends another one is never matched in its place.
func (b *Builder) suffixRules() []suffixRule {
	rules := []suffixRule{
		{suffix: b.opts.requestSuffix, kind: requestMessage},
		{suffix: b.opts.responseSuffix, kind: responseMessage},
		{suffix: b.opts.faultSuffix, kind: faultMessage},
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].suffix) > len(rules[j].suffix)
	})
	return rules
}

// BuildMessages creates one message per top-level element whose name ends
// with the request, response or fault suffix, in document order.
func (b *Builder) BuildMessages() error {
	return b.run(phaseMessages, func() error {
		rules := b.suffixRules()
		seen := make(map[string]bool)
		for _, schema := range b.schemas.Schemas() {
			for _, el := range schema.Root.ChildElements(schemaload.XSDNamespace, "element") {
				name := el.AttrValue("", "name")
				if name == "" {
					continue
				}
				rule, ok := lo.Find(rules, func(r suffixRule) bool {
					return strings.HasSuffix(name, r.suffix)
				})
				if !ok {
					continue
				}
				operation := strings.TrimSuffix(name, rule.suffix)
				if operation == "" {
					b.logger.Warn("element name is only a message suffix; skipped", zap.String("element", name))
					continue
				}
				if seen[name] {
					b.logger.Warn("duplicate message name; skipped",
						zap.String("element", name), zap.String("namespace", schema.TargetNamespace))
					continue
				}
				seen[name] = true

				msg := &wsdl.Message{
					Name: name,
					Parts: []wsdl.Part{{
						Name:    name,
						Element: xml.Name{Space: schema.TargetNamespace, Local: name},
					}},
				}
				b.defs.Messages = append(b.defs.Messages, msg)
				b.messages = append(b.messages, classifiedMessage{message: msg, operation: operation, kind: rule.kind})
			}
		}
		if len(b.messages) == 0 {
			b.logger.Warn("schema declares no message elements", zap.String("schema", b.root.SystemID))
		}
		return nil
	})
}

// BuildPortTypes creates the port type with one operation per message
// name stem, in order of first appearance.
func (b *Builder) BuildPortTypes() error {
	return b.run(phasePortTypes, func() error {
		pt := &wsdl.PortType{Name: b.opts.portTypeName}
		names := lo.Uniq(lo.Map(b.messages, func(m classifiedMessage, _ int) string {
			return m.operation
		}))
		byName := make(map[string]*wsdl.Operation, len(names))
		for _, name := range names {
			op := &wsdl.Operation{Name: name}
			byName[name] = op
			pt.Operations = append(pt.Operations, op)
		}

		for _, m := range b.messages {
			op := byName[m.operation]
			ref := wsdl.IO{
				Name:    m.message.Name,
				Message: xml.Name{Space: b.opts.targetNamespace, Local: m.message.Name},
			}
			switch m.kind {
			case requestMessage:
				op.Input = &ref
			case responseMessage:
				op.Output = &ref
			case faultMessage:
				op.Faults = append(op.Faults, ref)
			}
		}

		for _, op := range pt.Operations {
			if op.Input == nil {
				b.logger.Warn("operation has no request message", zap.String("operation", op.Name))
			}
		}
		b.defs.PortTypes = append(b.defs.PortTypes, pt)
		b.portType = pt
		return nil
	})
}
