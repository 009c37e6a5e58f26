// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rdf

import (
	"encoding/xml"
	"strings"
)

// element is a generic XML tree node. The catalog vocabulary is irregular
// enough (wildcard MARC tags, values nested at varying depths) that a
// walkable tree beats per-shape struct decoding.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
	Text     string     `xml:",chardata"`
}

// find returns the first descendant with the given namespace and local
// name, searching depth-first in document order.
func (e *element) find(space, local string) *element {
	for i := range e.Children {
		child := &e.Children[i]
		if child.XMLName.Space == space && child.XMLName.Local == local {
			return child
		}
		if found := child.find(space, local); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant with the given namespace and local
// name, in document order.
func (e *element) findAll(space, local string) []*element {
	var out []*element
	for i := range e.Children {
		child := &e.Children[i]
		if child.XMLName.Space == space && child.XMLName.Local == local {
			out = append(out, child)
		}
		out = append(out, child.findAll(space, local)...)
	}
	return out
}

// findAllPrefix returns every descendant in the given namespace whose
// local name starts with prefix, in document order.
func (e *element) findAllPrefix(space, prefix string) []*element {
	var out []*element
	for i := range e.Children {
		child := &e.Children[i]
		if child.XMLName.Space == space && strings.HasPrefix(child.XMLName.Local, prefix) {
			out = append(out, child)
		}
		out = append(out, child.findAllPrefix(space, prefix)...)
	}
	return out
}

// attr returns the value of the named attribute, or "" if absent.
func (e *element) attr(space, local string) string {
	for _, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// text returns the element's character data with surrounding whitespace
// removed.
func (e *element) text() string {
	return strings.TrimSpace(e.Text)
}
