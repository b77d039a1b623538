package shopify

// GraphQL documents for the Admin API. Pagination uses first/after variables;
// single-record queries take a fully-qualified gid.

const ordersQuery = `query FetchOrders($first: Int!, $after: String) {
  orders(first: $first, after: $after) {
    edges {
      cursor
      node {
        id
        name
        createdAt
        updatedAt
        currencyCode
        currentTotalPriceSet { shopMoney { amount currencyCode } }
        customer { id email firstName lastName }
        lineItems(first: 50) { edges { node { id title quantity sku } } }
        displayFinancialStatus
        displayFulfillmentStatus
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const singleOrderQuery = `query OneOrder($id: ID!) {
  order(id: $id) {
    id
    name
    createdAt
    updatedAt
    currencyCode
    currentTotalPriceSet { shopMoney { amount currencyCode } }
    customer { id email firstName lastName }
    lineItems(first: 100) { edges { node { id title quantity sku } } }
    displayFinancialStatus
    displayFulfillmentStatus
  }
}`

const productsQuery = `query GetProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      cursor
      node {
        id
        title
        handle
        vendor
        productType
        status
        tags
        createdAt
        updatedAt
        variants(first: 1) { edges { node { id } } }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const singleProductQuery = `query ProductWithMeta($id: ID!, $metafields: Int!) {
  product(id: $id) {
    id
    title
    handle
    vendor
    productType
    status
    tags
    createdAt
    updatedAt
    variants(first: 250) { edges { node { id title sku price } } }
    metafields(first: $metafields) { edges { node { namespace key value type } } }
  }
}`
