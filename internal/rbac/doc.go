// Package rbac provides the role catalog used to authorize requests.
//
// A Catalog maps role names to fixed permission sets. It is built once at
// startup from a roles document and is read-only afterwards:
//
//	{ "roles": [
//	    {"name": "admin",    "permissions": ["create_record", "read_record"]},
//	    {"name": "employee", "permissions": ["read_record"]}
//	]}
//
// Lookups of unknown role names resolve to an empty permission set, so they
// deny every check instead of failing. Role names are unique; when a document
// repeats a name the first definition wins.
//
// Roles are flat. There is no inheritance between roles and no way to change
// a catalog after construction; reloading requires a restart.
package rbac
