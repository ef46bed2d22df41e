// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package xmlrpc holds the types shared by every part of the XML-RPC client:
the Value model, requests, faults, endpoints and the Transport interface.

A call proceeds in one direction only. A Request is built, serialized by
package message, handed to a Transport, and the returned bytes are parsed
back into exactly one of a Value, a *Fault, or an error saying why the call
could not complete. Nothing is retried.

Values form trees. Scalars are the defined types Int, Int64, Bool, Double,
String, DateTime and Bytes; containers are Array and *Struct; Nil is the
<nil/> extension. Trees are acyclic and are treated as immutable once built.
*/
package xmlrpc // import "xmlrpc.io/xmlrpc"
