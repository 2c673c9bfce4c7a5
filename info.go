package fskit

import (
	"fmt"
	"io/fs"
	"time"
)

// Info namespaces. A namespace is a named group of related metadata
// fields. Backends always populate "basic"; the rest are returned only
// when requested and supported.
const (
	NamespaceBasic   = "basic"
	NamespaceDetails = "details"
	NamespaceAccess  = "access"
	NamespaceLink    = "link"
)

// ResourceType identifies the kind of a filesystem resource.
type ResourceType int

// Resource types reported in the "details" namespace.
const (
	TypeUnknown ResourceType = iota
	TypeDirectory
	TypeFile
	TypeCharacter
	TypeBlockSpecial
	TypeFIFO
	TypeSocket
	TypeSymlink
)

func (t ResourceType) String() string {
	switch t {
	case TypeDirectory:
		return "directory"
	case TypeFile:
		return "file"
	case TypeCharacter:
		return "character"
	case TypeBlockSpecial:
		return "block special"
	case TypeFIFO:
		return "fifo"
	case TypeSocket:
		return "socket"
	case TypeSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// RawInfo is the serializable form of resource metadata: a mapping of
// namespace name to field values. Timestamps are stored as epoch
// seconds; Info exposes them as time.Time.
type RawInfo map[string]map[string]any

// Info is an existence-independent record describing a resource. It is
// returned by GetInfo and ScanDir and consumed by SetInfo.
//
// Fields outside the "basic" namespace are gated: accessing them when
// their namespace is absent fails with ErrMissingNamespace, which is
// deliberately distinct from ErrNotExist.
type Info struct {
	Raw RawInfo
}

// NewInfo creates an Info from raw namespaced data.
func NewInfo(raw RawInfo) *Info {
	return &Info{Raw: raw}
}

func (i *Info) String() string {
	if i.IsDir() {
		return fmt.Sprintf("<dir %q>", i.Name())
	}
	return fmt.Sprintf("<file %q>", i.Name())
}

// HasNamespace reports whether the info contains a given namespace.
func (i *Info) HasNamespace(namespace string) bool {
	_, ok := i.Raw[namespace]
	return ok
}

// Get returns a raw value from a namespace, or nil when either the
// namespace or the key is absent.
func (i *Info) Get(namespace, key string) any {
	ns, ok := i.Raw[namespace]
	if !ok {
		return nil
	}
	return ns[key]
}

func (i *Info) require(namespace string) error {
	if !i.HasNamespace(namespace) {
		return fmt.Errorf("namespace %q: %w", namespace, ErrMissingNamespace)
	}
	return nil
}

func (i *Info) getInt(namespace, key string) (int64, error) {
	if err := i.require(namespace); err != nil {
		return 0, err
	}
	return toInt64(i.Get(namespace, key)), nil
}

func (i *Info) getTime(namespace, key string) (time.Time, error) {
	if err := i.require(namespace); err != nil {
		return time.Time{}, err
	}
	v := i.Get(namespace, key)
	if v == nil {
		return time.Time{}, nil
	}
	return time.Unix(toInt64(v), 0).UTC(), nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// Name returns the resource name from the "basic" namespace.
func (i *Info) Name() string {
	name, _ := i.Get(NamespaceBasic, "name").(string)
	return name
}

// IsDir reports whether the resource is a directory.
func (i *Info) IsDir() bool {
	isDir, _ := i.Get(NamespaceBasic, "is_dir").(bool)
	return isDir
}

// IsFile reports whether the resource is not a directory.
func (i *Info) IsFile() bool {
	return !i.IsDir()
}

// MakePath joins a directory path with the resource name.
func (i *Info) MakePath(dirPath string) string {
	return Join(dirPath, i.Name())
}

// Size returns the resource size in bytes. Requires "details".
func (i *Info) Size() (int64, error) {
	return i.getInt(NamespaceDetails, "size")
}

// Type returns the resource type. Requires "details".
func (i *Info) Type() (ResourceType, error) {
	n, err := i.getInt(NamespaceDetails, "type")
	return ResourceType(n), err
}

// Accessed returns the last access time. Requires "details".
func (i *Info) Accessed() (time.Time, error) {
	return i.getTime(NamespaceDetails, "accessed")
}

// Modified returns the last modification time. Requires "details".
func (i *Info) Modified() (time.Time, error) {
	return i.getTime(NamespaceDetails, "modified")
}

// Created returns the creation time. Requires "details".
func (i *Info) Created() (time.Time, error) {
	return i.getTime(NamespaceDetails, "created")
}

// MetadataChanged returns the metadata change time. Requires "details".
func (i *Info) MetadataChanged() (time.Time, error) {
	return i.getTime(NamespaceDetails, "metadata_changed")
}

// Permissions returns the permission bits. Requires "access".
func (i *Info) Permissions() (fs.FileMode, error) {
	n, err := i.getInt(NamespaceAccess, "permissions")
	return fs.FileMode(n), err
}

// UID returns the owner user id. Requires "access".
func (i *Info) UID() (int64, error) {
	return i.getInt(NamespaceAccess, "uid")
}

// GID returns the owner group id. Requires "access".
func (i *Info) GID() (int64, error) {
	return i.getInt(NamespaceAccess, "gid")
}

// User returns the owner user name. Requires "access".
func (i *Info) User() (string, error) {
	if err := i.require(NamespaceAccess); err != nil {
		return "", err
	}
	user, _ := i.Get(NamespaceAccess, "user").(string)
	return user, nil
}

// Group returns the owner group name. Requires "access".
func (i *Info) Group() (string, error) {
	if err := i.require(NamespaceAccess); err != nil {
		return "", err
	}
	group, _ := i.Get(NamespaceAccess, "group").(string)
	return group, nil
}

// IsLink reports whether the resource is a symlink. Requires "link".
func (i *Info) IsLink() (bool, error) {
	if err := i.require(NamespaceLink); err != nil {
		return false, err
	}
	return i.Get(NamespaceLink, "target") != nil, nil
}

// Target returns the symlink target. Requires "link".
func (i *Info) Target() (string, error) {
	if err := i.require(NamespaceLink); err != nil {
		return "", err
	}
	target, _ := i.Get(NamespaceLink, "target").(string)
	return target, nil
}

// Copy returns a deep copy of the resource info.
func (i *Info) Copy() *Info {
	raw := make(RawInfo, len(i.Raw))
	for namespace, fields := range i.Raw {
		ns := make(map[string]any, len(fields))
		for k, v := range fields {
			ns[k] = v
		}
		raw[namespace] = ns
	}
	return &Info{Raw: raw}
}
