package typeweave

// Version is the typeweave release version. Binaries built from source
// between releases carry the version of the last tag.
const Version = "0.4.0"
