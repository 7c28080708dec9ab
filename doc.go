/*
Package bson implements the core of the BSON binary document format:
construction, zero-copy iteration, visitor-driven traversal, structural
and semantic validation, and canonical extended-JSON rendering.

 BSON Specification

 Basic Types:
 byte    1 byte  (8-bits)
 int32   4 bytes (32-bit signed integer, little-endian)
 int64   8 bytes (64-bit signed integer, little-endian)
 double  8 bytes (64-bit IEEE 754 floating point, little-endian)

 document ::= int32 e_list "\x00"
 e_list   ::= element e_list | ""
 element  ::= "\x01" e_name double           Floating point
            | "\x02" e_name string           UTF-8 string
            | "\x03" e_name document         Embedded document
            | "\x04" e_name document         Array
            | "\x05" e_name binary           Binary data
            | "\x06" e_name                  Undefined
            | "\x07" e_name (byte*12)        ObjectId
            | "\x08" e_name byte             Boolean
            | "\x09" e_name int64            UTC datetime
            | "\x0A" e_name                  Null
            | "\x0B" e_name cstring cstring  Regular expression
            | "\x0C" e_name string (byte*12) DBPointer
            | "\x0D" e_name string           JavaScript code
            | "\x0E" e_name string           Symbol
            | "\x0F" e_name code_w_s         JavaScript code w/ scope
            | "\x10" e_name int32            32-bit integer
            | "\x11" e_name int64            Timestamp
            | "\x12" e_name int64            64-bit integer
            | "\x7F" e_name                  Max key
            | "\xFF" e_name                  Min key

A Document is either a root (owning its own growable buffer), a child
window into an ancestor's buffer (opened by StartDocument/StartArray and
closed by the matching Finish call), or a static view over borrowed,
read-only bytes. Only one document in a root's family tree — the
innermost currently open child, or the root itself if nothing is open —
may be appended to at any moment; see the package-level concurrency note
on Document.

This package never allocates more than it needs to: the iterator walks
a document's bytes without copying, and static views recurse into
embedded sub-documents and arrays without copying either.
*/
package bson
